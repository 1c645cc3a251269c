package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/tmanorigins/tman-server/internal/admin"
	"github.com/tmanorigins/tman-server/internal/client"
	"github.com/tmanorigins/tman-server/internal/domain"
)

func applicationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps"},
		Short:   "Triage creator applications",
	}

	cmd.AddCommand(
		applicationsListCmd(a),
		applicationsStatusCmd(a),
		applicationsDeleteCmd(a),
	)

	return cmd
}

func applicationsListCmd(a *app) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter domain.ApplicationStatus
			if status != "" {
				s, err := domain.ParseApplicationStatus(status)
				if err != nil {
					return err
				}
				filter = s
			}
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := a.outcome(cmd, a.ctl.SelectTab(cmd.Context(), admin.TabApplications)); err != nil {
				return err
			}

			state := a.ctl.State()
			apps := make([]client.Application, 0, len(state.Applications))
			for _, entry := range state.Applications {
				if filter == "" || entry.Status.OrDefault() == filter {
					apps = append(apps, entry)
				}
			}

			return a.print(cmd, apps, func(p *printer) {
				p.line("Applications: %d • New: %d", len(state.Applications), state.NewApplicationsCount())
				if len(apps) == 0 {
					return
				}
				rows := make([][]any, len(apps))
				for i, entry := range apps {
					rows[i] = []any{entry.ID, entry.Status.OrDefault(), entry.Name, entry.Email, orDash(entry.Instagram), orDash(entry.Niche), entry.CreatedAt.Local().Format(dateTimeFormat)}
				}
				p.line("")
				p.table([]any{"ID", "STATUS", "NAME", "EMAIL", "INSTAGRAM", "NICHE", "RECEIVED"}, rows)
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only applications with this status")

	return cmd
}

func applicationsStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "status <id> <status>",
		Short:     "Move an application to a new status",
		Long:      "Any status may follow any other: new, reviewing, approved or rejected.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: statusNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := domain.ParseApplicationStatus(args[1])
			if err != nil {
				return err
			}
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := a.ctl.RefreshApplications(cmd.Context()); err != nil {
				return a.outcome(cmd, err)
			}
			return a.outcome(cmd, a.ctl.SetApplicationStatus(cmd.Context(), args[0], status))
		},
	}
}

func applicationsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := a.ctl.RefreshApplications(cmd.Context()); err != nil {
				return a.outcome(cmd, err)
			}
			if err := a.outcome(cmd, a.ctl.DeleteApplication(cmd.Context(), args[0])); err != nil {
				return err
			}
			return a.printDeleted(cmd, args[0])
		},
	}
}

func applyCmd(a *app) *cobra.Command {
	var in client.ApplicationRequest

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Submit a creator application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			submitted, err := a.client.SubmitApplication(cmd.Context(), in)
			if err != nil {
				return describe(err)
			}
			return a.print(cmd, submitted, func(p *printer) {
				p.line("Application %s received (status %s)", submitted.ID, submitted.Status.OrDefault())
			})
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&in.Name, "name", "", "Applicant name")
	fl.StringVar(&in.Email, "email", "", "Applicant email")
	fl.StringVar(&in.Instagram, "instagram", "", "Instagram handle or URL")
	fl.StringVar(&in.Niche, "niche", "", "Content niche")

	return cmd
}

func healthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show server health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.client.Health(cmd.Context())
			if err != nil {
				return describe(err)
			}
			return a.print(cmd, h, func(p *printer) {
				p.line("%s (version %s)", h.Status, h.Version)
				names := make([]string, 0, len(h.Components))
				for name := range h.Components {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					c := h.Components[name]
					p.line("  %-10s %-10s %s %s", name, c.Status, c.Latency, c.Message)
				}
			})
		},
	}
}

func statusNames() []string {
	return []string{
		string(domain.ApplicationStatusNew),
		string(domain.ApplicationStatusReviewing),
		string(domain.ApplicationStatusApproved),
		string(domain.ApplicationStatusRejected),
	}
}
