// Package cli blogctl 命令行：登录、实体增删改查与导出，数据经 client 包访问管理接口。
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/blog-admin/config"
	"github.com/d60-Lab/blog-admin/internal/client"
	"github.com/d60-Lab/blog-admin/pkg/logger"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// options 全局参数与运行期依赖
type options struct {
	configDir string
	server    string
	token     string
	output    string
	timeout   time.Duration
	verbose   bool

	in     *bufio.Reader
	out    io.Writer
	now    func() time.Time
	loc    *time.Location
	client *client.Client
}

// NewRootCmd 构建 blogctl 命令树
func NewRootCmd() *cobra.Command {
	return newRootCmd(os.Stdin, os.Stdout)
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	o := &options{
		in:  bufio.NewReader(in),
		out: out,
		now: time.Now,
		loc: time.Local,
	}

	cmd := &cobra.Command{
		Use:           "blogctl",
		Short:         "Blog admin command line client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)

	f := cmd.PersistentFlags()
	f.StringVar(&o.configDir, "config", "", "Directory containing config.yaml")
	f.StringVar(&o.server, "server", "", "API base url (overrides client.base_url)")
	f.StringVar(&o.token, "token", "", "Bearer token (overrides client.token)")
	f.StringVarP(&o.output, "output", "o", outputTable, "Output format (table, json, yaml)")
	f.DurationVar(&o.timeout, "timeout", 0, "Request timeout (overrides client.timeout)")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Log requests to stderr")

	cmd.AddCommand(
		newLoginCmd(o),
		newPostStatusCmd(o),
		newPostCmd(o),
		newCommentCmd(o),
		newExportCmd(o),
	)
	return cmd
}

// setup 读取配置，命令行参数优先
func (o *options) setup(cmd *cobra.Command) error {
	switch o.output {
	case outputTable, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}

	var paths []string
	if o.configDir != "" {
		paths = append(paths, o.configDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return err
	}

	if o.verbose {
		if err := logger.Init("debug", "console"); err != nil {
			return err
		}
	}

	server := cfg.Client.BaseURL
	if cmd.Flags().Changed("server") {
		server = o.server
	}
	token := cfg.Client.Token
	if cmd.Flags().Changed("token") {
		token = o.token
	}
	timeout := cfg.Client.Timeout
	if cmd.Flags().Changed("timeout") {
		timeout = o.timeout
	}

	opts := []client.Option{client.WithToken(token)}
	if timeout > 0 {
		opts = append(opts, client.WithTimeout(timeout))
	}
	o.client, err = client.New(server, opts...)
	return err
}

func newLoginCmd(o *options) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and print a bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := o.prompt("Password: ")
				if err != nil {
					return err
				}
				password = p
			}
			token, err := o.client.Authenticate(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(o.out, token)
			return err
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when empty)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newExportCmd(o *options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all posts as an HTML document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := o.client.ExportPosts(cmd.Context())
			if err != nil {
				return err
			}
			if file == "" || file == "-" {
				_, err = o.out.Write(doc)
				return err
			}
			if err := os.WriteFile(file, doc, 0o644); err != nil {
				return err
			}
			_, err = fmt.Fprintf(o.out, "wrote %d bytes to %s\n", len(doc), file)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to file instead of stdout")
	return cmd
}

// prompt 从输入读取一行
func (o *options) prompt(label string) (string, error) {
	fmt.Fprint(o.out, label)
	line, err := o.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Execute 供 main 调用
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
