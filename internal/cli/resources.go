package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/blog-admin/internal/admin"
	"github.com/d60-Lab/blog-admin/internal/client"
	"github.com/d60-Lab/blog-admin/internal/form"
	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/internal/sortstate"
)

var (
	postStatusHeader = []string{"ID", "STATUS"}
	postHeader       = []string{"ID", "TITLE", "STATUS", "CREATED", "UPDATED"}
	commentHeader    = []string{"ID", "CONTENT", "POST", "CREATED"}
)

func postStatusRow(s *model.PostStatus) []string {
	return []string{idCell(s.GetID()), s.Status}
}

func newPostStatusCmd(o *options) *cobra.Command {
	return newResourceCmd(o, resourceDef[model.PostStatus, *model.PostStatus, form.PostStatusRawValue]{
		use:      "post-status",
		aliases:  []string{"post-statuses", "ps"},
		route:    "post-statuses",
		resource: client.NewPostStatusService,
		form: func(*options) form.Form[model.PostStatus, form.PostStatusRawValue] {
			return form.PostStatusForm{}
		},
		fields: sortstate.PostStatusFields,
		header: postStatusHeader,
		row:    postStatusRow,
	})
}

func newPostCmd(o *options) *cobra.Command {
	cmd := newResourceCmd(o, resourceDef[model.Post, *model.Post, form.PostRawValue]{
		use:      "post",
		aliases:  []string{"posts"},
		route:    "posts",
		resource: client.NewPostService,
		form: func(o *options) form.Form[model.Post, form.PostRawValue] {
			return form.PostForm{Loc: o.loc}
		},
		fields: sortstate.PostFields,
		header: postHeader,
		row: func(p *model.Post) []string {
			status := ""
			if p.PostStatus != nil {
				status = p.PostStatus.Status
			}
			return []string{idCell(p.ID), p.Title, status, o.timeCell(p.CreateTime), o.timeCell(p.UpdateTime)}
		},
		count: true,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status-options [POST_ID]",
		Short: "List post statuses a post can take",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var current *model.PostStatus
			if len(args) == 1 {
				p, err := resolve(cmd, o, resourceDef[model.Post, *model.Post, form.PostRawValue]{
					use: "post", route: "posts", resource: client.NewPostService,
				}, args[0])
				if err != nil {
					return err
				}
				current = p.PostStatus
			}
			items, err := admin.PostStatusOptions(cmd.Context(), client.NewPostStatusService(o.client), current)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(items))
			for _, s := range items {
				rows = append(rows, postStatusRow(s))
			}
			return o.render(items, postStatusHeader, rows)
		},
	})
	return cmd
}

func newCommentCmd(o *options) *cobra.Command {
	cmd := newResourceCmd(o, resourceDef[model.Comment, *model.Comment, form.CommentRawValue]{
		use:      "comment",
		aliases:  []string{"comments"},
		route:    "comments",
		resource: client.NewCommentService,
		form: func(o *options) form.Form[model.Comment, form.CommentRawValue] {
			return form.CommentForm{Loc: o.loc}
		},
		fields: sortstate.CommentFields,
		header: commentHeader,
		row: func(c *model.Comment) []string {
			return []string{idCell(c.ID), c.Content, idCell(c.Post.GetID()), o.timeCell(c.CreateTime)}
		},
		count: true,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "post-options [COMMENT_ID]",
		Short: "List posts a comment can belong to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var current *model.Post
			if len(args) == 1 {
				c, err := resolve(cmd, o, resourceDef[model.Comment, *model.Comment, form.CommentRawValue]{
					use: "comment", route: "comments", resource: client.NewCommentService,
				}, args[0])
				if err != nil {
					return err
				}
				current = c.Post
			}
			items, err := admin.PostOptions(cmd.Context(), client.NewPostService(o.client), current)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(items))
			for _, p := range items {
				rows = append(rows, []string{idCell(p.ID), p.Title})
			}
			return o.render(items, []string{"ID", "TITLE"}, rows)
		},
	})
	return cmd
}

func idCell(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
