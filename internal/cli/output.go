package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/d60-Lab/blog-admin/internal/form"
)

// render 按 --output 输出；table 只输出 header/rows
func (o *options) render(v any, header []string, rows [][]string) error {
	switch o.output {
	case outputJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(o.out, string(b))
		return err
	case outputYAML:
		b, err := toYAML(v)
		if err != nil {
			return err
		}
		_, err = o.out.Write(b)
		return err
	}

	tw := tabwriter.NewWriter(o.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

// toYAML 经 JSON 转换，字段名与顺序和接口保持一致
func toYAML(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	blockStyle(&doc)
	return yaml.Marshal(&doc)
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// readInput 读取 --data 或 --file（JSON 或 YAML），覆盖到 dst 已有的字段上
func (o *options) readInput(data, file string, dst any) error {
	var (
		b   []byte
		err error
	)
	switch {
	case file == "-":
		b, err = io.ReadAll(o.in)
	case file != "":
		b, err = os.ReadFile(file)
	case data != "":
		b = []byte(data)
	default:
		return errNoInput
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	if doc == nil {
		return errNoInput
	}
	j, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	if err := json.Unmarshal(j, dst); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	return nil
}

func (o *options) timeCell(t time.Time) string {
	if s := form.FormatTime(t, o.loc); s != nil {
		return *s
	}
	return ""
}
