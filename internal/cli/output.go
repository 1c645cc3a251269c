package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tmanorigins/tman-server/internal/admin"
	"github.com/tmanorigins/tman-server/internal/client"
	domainerrors "github.com/tmanorigins/tman-server/internal/errors"
)

const dateTimeFormat = "2006-01-02 15:04"

// printer writes text output.
type printer struct {
	w io.Writer
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// table writes tab-separated rows aligned into columns.
func (p *printer) table(header []any, rows [][]any) {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	writeRow(tw, header)
	for _, row := range rows {
		writeRow(tw, row)
	}
	_ = tw.Flush()
}

func writeRow(w io.Writer, cols []any) {
	for i, col := range cols {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, col)
	}
	fmt.Fprintln(w)
}

// print writes v as JSON in json mode, or calls text otherwise.
func (a *app) print(cmd *cobra.Command, v any, text func(p *printer)) error {
	if a.opts.output == OutputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(&printer{w: cmd.OutOrStdout()})
	return nil
}

// describe converts a client error into the message shown on the terminal.
func describe(err error) error {
	switch client.KindOf(err) {
	case client.KindNetwork:
		return errors.New(admin.MsgNetworkFailure)
	case client.KindAuth:
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Code == domainerrors.CodeInvalidCredentials {
			return errors.New(apiErr.Message)
		}
		return errors.New(admin.MsgSessionExpired)
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return errors.New(apiErr.Message)
	}
	return err
}
