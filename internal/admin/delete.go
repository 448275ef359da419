package admin

import "context"

// DeleteDialog 删除确认
type DeleteDialog struct {
	svc Deleter
}

func NewDeleteDialog(svc Deleter) *DeleteDialog { return &DeleteDialog{svc: svc} }

// ConfirmDelete 成功时返回 ItemDeletedEvent
func (d *DeleteDialog) ConfirmDelete(ctx context.Context, id int64) (Event, error) {
	if err := d.svc.Delete(ctx, id); err != nil {
		return "", err
	}
	return ItemDeletedEvent, nil
}

func (d *DeleteDialog) Cancel() Event { return DismissedEvent }
