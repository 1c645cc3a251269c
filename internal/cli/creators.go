package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"github.com/tmanorigins/tman-server/internal/admin"
	"github.com/tmanorigins/tman-server/internal/client"
	"github.com/tmanorigins/tman-server/internal/media/images"
)

func creatorsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "creators",
		Aliases: []string{"creator"},
		Short:   "List and manage creators",
	}

	cmd.AddCommand(
		creatorsListCmd(a),
		creatorsShowCmd(a),
		creatorsCreateCmd(a),
		creatorsUpdateCmd(a),
		creatorsDeleteCmd(a),
		creatorsCoverCmd(a),
		creatorsRemoveImageCmd(a),
	)

	return cmd
}

func creatorsListCmd(a *app) *cobra.Command {
	var featured bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List creators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := a.client.ListCreators
			if featured {
				list = a.client.FeaturedCreators
			}
			creators, err := list(cmd.Context())
			if err != nil {
				return describe(err)
			}

			return a.print(cmd, creators, func(p *printer) {
				rows := make([][]any, len(creators))
				for i, c := range creators {
					rows[i] = []any{c.ID, c.Slug, c.Name, yesNo(c.Featured), len(c.Images), orDash(a.client.ThumbnailURL(c))}
				}
				p.table([]any{"ID", "SLUG", "NAME", "FEATURED", "IMAGES", "COVER"}, rows)
			})
		},
	}

	cmd.Flags().BoolVar(&featured, "featured", false, "Only featured creators")

	return cmd
}

func creatorsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Show one creator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client.CreatorBySlug(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			return a.print(cmd, c, func(p *printer) {
				printCreator(p, a.client, *c)
			})
		},
	}
}

// creatorFlags binds the editor fields to command flags.
type creatorFlags struct {
	form   admin.CreatorForm
	images []string
}

func (f *creatorFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.form.Name, "name", "", "Display name")
	fl.StringVar(&f.form.Slug, "slug", "", "URL slug (suggested from the name when omitted on create)")
	fl.StringVar(&f.form.Bio, "bio", "", "Biography")
	fl.StringVar(&f.form.Instagram, "instagram", "", "Instagram URL")
	fl.StringVar(&f.form.Handle, "handle", "", "Display handle")
	fl.StringVar(&f.form.EmailSlug, "email-slug", "", "Suffix of the team<suffix>@ collaboration address")
	fl.BoolVar(&f.form.Featured, "featured", false, "Highlight on the home page")
	fl.StringSliceVar(&f.images, "image", nil, "Image file to add to the gallery (repeatable)")
}

// overlay copies the flags that were set on the command line onto form.
func (f *creatorFlags) overlay(cmd *cobra.Command, form admin.CreatorForm) admin.CreatorForm {
	changed := cmd.Flags().Changed
	if changed("name") {
		form.Name = f.form.Name
	}
	if changed("slug") {
		form.Slug = f.form.Slug
	}
	if changed("bio") {
		form.Bio = f.form.Bio
	}
	if changed("instagram") {
		form.Instagram = f.form.Instagram
	}
	if changed("handle") {
		form.Handle = f.form.Handle
	}
	if changed("email-slug") {
		form.EmailSlug = f.form.EmailSlug
	}
	if changed("featured") {
		form.Featured = f.form.Featured
	}
	return form
}

func (f *creatorFlags) uploads() ([]client.Upload, error) {
	uploads := make([]client.Upload, 0, len(f.images))
	for _, path := range f.images {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		uploads = append(uploads, client.Upload{Filename: filepath.Base(path), Data: data})
	}
	return uploads, nil
}

func creatorsCreateCmd(a *app) *cobra.Command {
	var flags creatorFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a creator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uploads, err := flags.uploads()
			if err != nil {
				return err
			}
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}

			form := flags.form
			if form.Slug == "" && form.Name != "" {
				form.Slug = slug.Make(form.Name)
				fmt.Fprintf(cmd.ErrOrStderr(), "Using slug %q\n", form.Slug)
			}

			a.ctl.CancelEdit()
			a.ctl.SetForm(form)
			a.ctl.AddUploads(uploads...)
			return a.saveCreator(cmd)
		},
	}

	flags.bind(cmd)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func creatorsUpdateCmd(a *app) *cobra.Command {
	var flags creatorFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a creator's fields and append images to its gallery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uploads, err := flags.uploads()
			if err != nil {
				return err
			}
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if !a.ctl.StartEdit(args[0]) {
				return fmt.Errorf("creator %s not found", args[0])
			}

			a.ctl.SetForm(flags.overlay(cmd, a.ctl.State().Form))
			a.ctl.AddUploads(uploads...)
			return a.saveCreator(cmd)
		},
	}

	flags.bind(cmd)

	return cmd
}

func (a *app) saveCreator(cmd *cobra.Command) error {
	c, err := a.ctl.SaveCreator(cmd.Context())
	if a.opts.output == OutputJSON && err == nil {
		return a.print(cmd, c, nil)
	}
	if err := a.outcome(cmd, err); err != nil {
		return err
	}
	printCreator(&printer{w: cmd.OutOrStdout()}, a.client, *c)
	return nil
}

func creatorsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a creator and its images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := a.outcome(cmd, a.ctl.DeleteCreator(cmd.Context(), args[0])); err != nil {
				return err
			}
			return a.printDeleted(cmd, args[0])
		},
	}
}

func creatorsCoverCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cover <id> <image>",
		Short: "Make a gallery image the cover",
		Long:  "The image is a path as listed by `creators show`, or just its file name.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			return a.outcome(cmd, a.ctl.SetCover(cmd.Context(), args[0], imageRef(args[0], args[1])))
		},
	}
}

func creatorsRemoveImageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-image <id> <image>",
		Short: "Remove an image from the gallery",
		Long:  "The image is a path as listed by `creators show`, or just its file name. Removing the cover leaves the creator without one.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			return a.outcome(cmd, a.ctl.RemoveImage(cmd.Context(), args[0], imageRef(args[0], args[1])))
		},
	}
}

// imageRef expands a bare file name into the creator's image path.
func imageRef(creatorID, image string) string {
	if strings.HasPrefix(image, "/") {
		return image
	}
	return images.RefForKey(images.CreatorKey(creatorID, image))
}

func printCreator(p *printer, c *client.Client, creator client.Creator) {
	p.line("%s (%s)", creator.Name, creator.ID)
	p.line("  slug:      %s", creator.Slug)
	p.line("  handle:    %s", orDash(creator.Handle))
	p.line("  instagram: %s", orDash(creator.Instagram))
	p.line("  contact:   %s", creator.ContactEmail)
	p.line("  featured:  %s", yesNo(creator.Featured))
	p.line("  cover:     %s", orDash(creator.Image))
	for _, ref := range creator.Images {
		marker := " "
		if ref == creator.Image {
			marker = "*"
		}
		p.line("  %s %s", marker, c.ImageURL(creator, ref))
	}
}

func (a *app) printDeleted(cmd *cobra.Command, id string) error {
	if a.opts.output != OutputJSON {
		return nil
	}
	return a.print(cmd, client.Deleted{ID: id, Deleted: true}, nil)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
