package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/CrimsonAS/qpropertylinks/adaptor"
	"github.com/CrimsonAS/qpropertylinks/composite"
	"github.com/CrimsonAS/qpropertylinks/links"
	"github.com/CrimsonAS/qpropertylinks/proxy"
)

type shapeRow struct {
	Proxy    string `json:"proxy"`
	Property string `json:"property"`
	Kind     string `json:"kind"`
	Shape    string `json:"shape"`
	Value    any    `json:"value"`
}

func newShapesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shapes [proxy...]",
		Short: "Show the adaptation shape and value of each property",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())
			proxies, err := loadProxies(cfg, args)
			if err != nil {
				return err
			}
			var rows []shapeRow
			for _, px := range proxies {
				for _, p := range px.Properties() {
					shape := adaptor.Classify(p)
					rows = append(rows, shapeRow{
						Proxy:    px.Group() + "/" + px.Name(),
						Property: p.Name(),
						Kind:     p.Kind().String(),
						Shape:    shape.String(),
						Value:    presentValue(p, shape),
					})
				}
			}
			if cfg.Output == "json" {
				return renderJSON(cmd.OutOrStdout(), rows)
			}
			header := table.Row{"Proxy", "Property", "Kind", "Shape", "Value"}
			return renderTable(cmd.OutOrStdout(), header, len(rows), func(i int) table.Row {
				r := rows[i]
				return table.Row{r.Proxy, r.Property, r.Kind, r.Shape, formatValue(r.Value)}
			})
		},
	}
}

// presentValue is the value the property's adaptor shows a widget.
func presentValue(p *proxy.Property, shape adaptor.Shape) any {
	switch shape {
	case adaptor.ShapeEnumeration:
		return adaptor.Enumeration(p, adaptor.Checked)
	case adaptor.ShapeSelection:
		return adaptor.Selection(p, adaptor.Checked)
	case adaptor.ShapeProxy, adaptor.ShapeProxySelection:
		if px := adaptor.Proxy(p, adaptor.Checked); px != nil {
			return px.Name()
		}
		return nil
	case adaptor.ShapeProxyList:
		var names []string
		for _, px := range adaptor.Proxies(p, adaptor.Checked) {
			if px != nil {
				names = append(names, px.Name())
			}
		}
		return names
	case adaptor.ShapeFileList:
		return adaptor.FileList(p, adaptor.Checked)
	case adaptor.ShapeFieldSelection:
		return []string{adaptor.FieldSelectionMode(p, adaptor.Checked), adaptor.FieldSelectionScalar(p, adaptor.Checked)}
	case adaptor.ShapeSingleElement:
		return adaptor.Element(p, 0, adaptor.Checked)
	}
	return adaptor.Elements(p, adaptor.Checked)
}

type domainRow struct {
	Proxy    string   `json:"proxy"`
	Property string   `json:"property"`
	Domain   string   `json:"domain"`
	Name     string   `json:"name"`
	Values   []string `json:"values"`
}

func newDomainsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "domains [proxy...]",
		Short: "List the domains of each property and the values they allow",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())
			proxies, err := loadProxies(cfg, args)
			if err != nil {
				return err
			}
			var rows []domainRow
			for _, px := range proxies {
				for _, p := range px.Properties() {
					for _, d := range p.Domains() {
						rows = append(rows, domainRow{
							Proxy:    px.Group() + "/" + px.Name(),
							Property: p.Name(),
							Domain:   d.Kind().String(),
							Name:     d.Name(),
							Values:   describeDomain(d),
						})
					}
				}
			}
			if cfg.Output == "json" {
				return renderJSON(cmd.OutOrStdout(), rows)
			}
			header := table.Row{"Proxy", "Property", "Domain", "Name", "Values"}
			return renderTable(cmd.OutOrStdout(), header, len(rows), func(i int) table.Row {
				r := rows[i]
				return table.Row{r.Proxy, r.Property, r.Domain, r.Name, strings.Join(r.Values, ", ")}
			})
		},
	}
}

func describeDomain(d proxy.Domain) []string {
	var values []string
	switch d := d.(type) {
	case *proxy.BooleanDomain:
		values = []string{"false", "true"}
	case *proxy.EnumerationDomain:
		for _, e := range d.Entries() {
			values = append(values, fmt.Sprintf("%s=%d", e.Text, e.Value))
		}
	case *proxy.StringListDomain:
		values = d.Strings()
	case *proxy.StringListRangeDomain:
		values = d.Strings()
	case *proxy.ArrayListDomain:
		for _, a := range d.Arrays() {
			if a.Partial {
				values = append(values, a.Name+" (partial)")
			} else {
				values = append(values, a.Name)
			}
		}
	case *proxy.RangeDomain:
		for _, r := range d.Ranges() {
			values = append(values, formatRange(r))
		}
	case *proxy.ProxyGroupDomain:
		for _, np := range d.Proxies() {
			values = append(values, np.Name)
		}
	case *proxy.ProxyListDomain:
		for _, px := range d.Proxies() {
			values = append(values, px.Name())
		}
	case *proxy.CompositeTreeDomain:
		tree := composite.New(d)
		defer tree.Close()
		values = []string{d.Mode().String(), fmt.Sprintf("%d nodes", len(tree.Nodes()))}
	}
	return values
}

func formatRange(r proxy.Range) string {
	lo, hi := math.Inf(-1), math.Inf(1)
	if r.HasMin {
		lo = r.Min
	}
	if r.HasMax {
		hi = r.Max
	}
	return fmt.Sprintf("[%g, %g]", lo, hi)
}

type nodeRow struct {
	Flat      int    `json:"flat"`
	Level     int    `json:"level"`
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Checkable bool   `json:"checkable"`
	State     string `json:"state"`

	depth int
}

type treeResult struct {
	Nodes    []nodeRow `json:"nodes"`
	Values   []int     `json:"values"`
	Elements []any     `json:"elements"`
}

func newTreeCommand() *cobra.Command {
	var check []int
	cmd := &cobra.Command{
		Use:   "tree <proxy> <property>",
		Short: "Show the composite tree of a property",
		Long: `Show the checkable tree of a property with a composite tree domain.

With --check, the given values are checked in the tree and written back to
the property through a link, as a tree widget would.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())
			proxies, err := loadProxies(cfg, args[:1])
			if err != nil {
				return err
			}
			px := proxies[0]
			p := px.Property(args[1])
			if p == nil {
				return fmt.Errorf("%s has no property %s", px.Name(), args[1])
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg)

			tree, err := composite.ForProperty(p,
				composite.WithShowDatasetsInMultiPiece(cfg.ExpandPieces),
				composite.WithLogger(logger))
			if err != nil {
				return err
			}
			defer tree.Close()

			set := links.New(links.WithGuard(links.NewGuard()), links.WithLogger(logger))
			defer set.RemoveAllPropertyLinks()
			if _, err := set.AddPropertyLink(tree, composite.ValuesProperty, "", px, p.Name(), -1); err != nil {
				return err
			}
			if cmd.Flags().Changed("check") {
				tree.SetValues(check)
			}

			res := treeResult{Values: tree.Values(), Elements: p.Elements()}
			for _, n := range tree.Nodes() {
				res.Nodes = append(res.Nodes, nodeRow{
					Flat:      n.FlatIndex(),
					Level:     n.LevelNumber(),
					Index:     n.BlockIndex(),
					Name:      n.BlockName(),
					Kind:      n.Kind().String(),
					Checkable: n.Checkable(),
					State:     n.CheckState().String(),
					depth:     depthOf(n),
				})
			}
			if cfg.Output == "json" {
				return renderJSON(cmd.OutOrStdout(), res)
			}
			w := cmd.OutOrStdout()
			header := table.Row{"Flat", "Level", "Index", "Name", "Kind", "Checkable", "State"}
			err = renderTable(w, header, len(res.Nodes), func(i int) table.Row {
				r := res.Nodes[i]
				return table.Row{r.Flat, r.Level, r.Index, strings.Repeat("  ", r.depth) + r.Name, r.Kind, r.Checkable, r.State}
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(w, "values: %v\n%s: %v\n", res.Values, p.Name(), formatValue(res.Elements))
			return err
		},
	}
	cmd.Flags().IntSliceVar(&check, "check", nil, "values to check, e.g. --check 1,4")
	return cmd
}

func depthOf(n *composite.Node) int {
	depth := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		depth++
	}
	return depth
}

func renderTable(w io.Writer, header table.Row, n int, row func(int) table.Row) error {
	if n == 0 {
		_, err := fmt.Fprintln(w, "(none)")
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	for i := 0; i < n; i++ {
		t.AppendRow(row(i))
	}
	t.Render()
	return nil
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case []adaptor.Pair:
		parts := make([]string, len(v))
		for i, pr := range v {
			parts[i] = fmt.Sprintf("%s=%v", pr.Name, pr.Value)
		}
		return strings.Join(parts, ", ")
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(e)
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(v, ", ")
	}
	return fmt.Sprint(v)
}
