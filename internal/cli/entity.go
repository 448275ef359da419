package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/blog-admin/internal/admin"
	"github.com/d60-Lab/blog-admin/internal/client"
	"github.com/d60-Lab/blog-admin/internal/entity"
	"github.com/d60-Lab/blog-admin/internal/form"
	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/internal/sortstate"
)

var errNoInput = errors.New("no input: use --data or --file")

// resourceDef 一个实体的命令定义
type resourceDef[E any, P entity.Ref[E], R any] struct {
	use      string
	aliases  []string
	route    string
	resource func(*client.Client) *client.Resource[E, P]
	form     func(*options) form.Form[E, R]
	fields   sortstate.Fields[P]
	header   []string
	row      func(P) []string
	count    bool
}

func newResourceCmd[E any, P entity.Ref[E], R any](o *options, d resourceDef[E, P, R]) *cobra.Command {
	cmd := &cobra.Command{
		Use:     d.use,
		Aliases: d.aliases,
		Short:   "Manage " + d.route,
	}
	cmd.AddCommand(
		listCmd(o, d),
		getCmd(o, d),
		createCmd(o, d),
		updateCmd(o, d),
		patchCmd(o, d),
		deleteCmd(o, d),
	)
	if d.count {
		cmd.AddCommand(countCmd(o, d))
	}
	return cmd
}

func (d resourceDef[E, P, R]) rows(items []P) [][]string {
	out := make([][]string, 0, len(items))
	for _, e := range items {
		out = append(out, d.row(e))
	}
	return out
}

func listCmd[E any, P entity.Ref[E], R any](o *options, d resourceDef[E, P, R]) *cobra.Command {
	var (
		sort     string
		filter   string
		criteria []string
		page     int
		size     int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + d.route,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseCriteria(criteria)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("page") {
				values.Set("page", strconv.Itoa(page))
			}
			if cmd.Flags().Changed("size") {
				values.Set("size", strconv.Itoa(size))
			}

			view := admin.NewListView[P](d.resource(o.client), d.fields)
			view.Filter = filter
			view.Criteria = values
			if err := view.ApplyRoute(cmd.Context(), sort, "id,asc"); err != nil {
				return err
			}
			return o.render(view.Items, d.header, d.rows(view.Items))
		},
	}
	cmd.Flags().StringVar(&sort, "sort", "", `Sort as "field,asc|desc" (default "id,asc")`)
	cmd.Flags().StringVar(&filter, "filter", "", "Named filter, e.g. post-is-null")
	cmd.Flags().StringArrayVarP(&criteria, "criteria", "c", nil, "Criteria as key=value, e.g. title.contains=go (repeatable)")
	cmd.Flags().IntVar(&page, "page", 0, "Page index, starting at 0")
	cmd.Flags().IntVar(&size, "size", model.DefaultPageSize, "Page size")
	return cmd
}

func getCmd[E any, P entity.Ref[E], R any](o *options, d resourceDef[E, P, R]) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one of " + d.route,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := resolve(cmd, o, d, args[0])
			if err != nil {
				return err
			}
			detail := admin.NewDetailView(e, admin.NewHistory(d.route))
			return o.render(detail.Entity, d.header, [][]string{d.row(detail.Entity)})
		},
	}
}

func createCmd[E any, P entity.Ref[E], R any](o *options, d resourceDef[E, P, R]) *cobra.Command {
	var data, file string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create one of " + d.route,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nav := admin.NewHistory(d.route)
			nav.Navigate(d.route, "new")
			view := admin.NewUpdateView[E, P, R](d.resource(o.client), d.form(o), nav)
			view.Init(nil, o.now())

			raw := view.Raw
			if err := o.readInput(data, file, &raw); err != nil {
				return err
			}
			saved, err := view.Save(cmd.Context(), raw)
			if err != nil {
				return err
			}
			return o.render(saved, d.header, [][]string{d.row(saved)})
		},
	}
	inputFlags(cmd, &data, &file)
	return cmd
}

func updateCmd[E any, P entity.Ref[E], R any](o *options, d resourceDef[E, P, R]) *cobra.Command {
	var data, file string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace one of " + d.route + "; omitted fields keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := resolve(cmd, o, d, args[0])
			if err != nil {
				return err
			}
			nav := admin.NewHistory(d.route)
			nav.Navigate(d.route, args[0], "edit")
			view := admin.NewUpdateView[E, P, R](d.resource(o.client), d.form(o), nav)
			view.Init(e, o.now())

			raw := view.Raw
			if err := o.readInput(data, file, &raw); err != nil {
				return err
			}
			saved, err := view.Save(cmd.Context(), raw)
			if err != nil {
				return err
			}
			return o.render(saved, d.header, [][]string{d.row(saved)})
		},
	}
	inputFlags(cmd, &data, &file)
	return cmd
}

func patchCmd[E any, P entity.Ref[E], R any](o *options, d resourceDef[E, P, R]) *cobra.Command {
	var data, file string
	cmd := &cobra.Command{
		Use:   "patch ID",
		Short: "Partially update one of " + d.route,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch := map[string]any{}
			if err := o.readInput(data, file, &patch); err != nil {
				return err
			}
			patch["id"] = id
			saved, err := d.resource(o.client).PartialUpdate(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return o.render(saved, d.header, [][]string{d.row(saved)})
		},
	}
	inputFlags(cmd, &data, &file)
	return cmd
}

func deleteCmd[E any, P entity.Ref[E], R any](o *options, d resourceDef[E, P, R]) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete one of " + d.route,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			dialog := admin.NewDeleteDialog(d.resource(o.client))
			if !yes {
				answer, err := o.prompt(fmt.Sprintf("Delete %s %d? [y/N] ", d.use, id))
				if err != nil {
					return err
				}
				if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
					_, err = fmt.Fprintln(o.out, dialog.Cancel())
					return err
				}
			}
			ev, err := dialog.ConfirmDelete(cmd.Context(), id)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(o.out, ev)
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func countCmd[E any, P entity.Ref[E], R any](o *options, d resourceDef[E, P, R]) *cobra.Command {
	var criteria []string
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count " + d.route + " matching criteria",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseCriteria(criteria)
			if err != nil {
				return err
			}
			n, err := d.resource(o.client).Count(cmd.Context(), values)
			if err != nil {
				return err
			}
			return o.render(n, []string{"COUNT"}, [][]string{{strconv.FormatInt(n, 10)}})
		},
	}
	cmd.Flags().StringArrayVarP(&criteria, "criteria", "c", nil, "Criteria as key=value (repeatable)")
	return cmd
}

// resolve 按 id 取实体，不存在时返回 client.ErrNotFound
func resolve[E any, P entity.Ref[E], R any](cmd *cobra.Command, o *options, d resourceDef[E, P, R], id string) (P, error) {
	nav := admin.NewHistory(d.route)
	e, ok, err := admin.Resolve[E, P](cmd.Context(), d.resource(o.client), id, nav)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", d.use, id, client.ErrNotFound)
	}
	return e, nil
}

func inputFlags(cmd *cobra.Command, data, file *string) {
	cmd.Flags().StringVarP(data, "data", "d", "", "Entity fields as JSON or YAML")
	cmd.Flags().StringVarP(file, "file", "f", "", `Read entity fields from a JSON/YAML file ("-" for stdin)`)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// parseCriteria key=value 列表转查询参数
func parseCriteria(pairs []string) (url.Values, error) {
	v := url.Values{}
	for _, p := range pairs {
		k, val, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid criteria %q, expected key=value", p)
		}
		v.Add(strings.TrimSpace(k), val)
	}
	return v, nil
}
