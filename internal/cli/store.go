package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	ferrors "github.com/matzehuels/flowdeck/pkg/errors"
	"github.com/matzehuels/flowdeck/pkg/persist"
	"github.com/matzehuels/flowdeck/pkg/store"
)

// storeCommand creates the document store command.
func (c *CLI) storeCommand() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage named documents in the configured store",
		Long: `Manage named documents in the configured store.

The backend comes from the [store] section of the config file and can be
overridden with --backend: ` + strings.Join(store.Backends, ", ") + `.`,
	}
	cmd.PersistentFlags().StringVar(&backend, "backend", "", "store backend override")

	cmd.AddCommand(c.storeListCommand(&backend))
	cmd.AddCommand(c.storePushCommand(&backend))
	cmd.AddCommand(c.storePullCommand(&backend))
	cmd.AddCommand(c.storeRemoveCommand(&backend))

	return cmd
}

func (c *CLI) storeListCommand(backend *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, name, err := c.openStore(ctx, *backend)
			if err != nil {
				return err
			}
			defer s.Close()

			names, err := s.List(ctx)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No documents in the %s store", name)
				return nil
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func (c *CLI) storePushCommand(backend *string) *cobra.Command {
	return &cobra.Command{
		Use:   "push [file.json] [name]",
		Short: "Save a document file under a name",
		Long: `Save a document file under a name.

The name defaults to the file name without its extension.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeDocumentFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if len(args) == 2 {
				name = args[1]
			}
			if err := ferrors.ValidateDocumentName(name); err != nil {
				return err
			}

			doc, err := persist.ReadFile(path)
			if err != nil {
				return err
			}
			s, b, err := c.openStore(ctx, *backend)
			if err != nil {
				return err
			}
			defer s.Close()

			spinner := newSpinnerWithContext(ctx, "Saving "+name+"...")
			spinner.Start()
			if err := s.Save(ctx, name, doc); err != nil {
				spinner.StopWithError("Save failed")
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("Saved %s to the %s store", name, b))
			printDetail("%d records", len(doc.Records))
			return nil
		},
	}
}

func (c *CLI) storePullCommand(backend *string) *cobra.Command {
	var refresh, noCache bool

	cmd := &cobra.Command{
		Use:   "pull [name] [file.json]",
		Short: "Write a stored document to a file",
		Long: `Write a stored document to a file.

The file defaults to the name with a .json extension. Documents from
remote stores are cached for a few minutes; --refresh skips that copy.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: c.completeStoredThenFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]
			path := name + ".json"
			if len(args) == 2 {
				path = args[1]
			}
			if err := ferrors.ValidatePath(path); err != nil {
				return err
			}

			s, b, err := c.openStore(ctx, *backend)
			if err != nil {
				return err
			}
			defer s.Close()
			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			doc, err := runner.FetchDocument(ctx, s, b, name, refresh)
			if err != nil {
				if store.IsNotFound(err) {
					return fmt.Errorf("no document named %q in the %s store", name, b)
				}
				return err
			}
			if err := persist.WriteFile(path, doc); err != nil {
				return err
			}
			printSuccess("Pulled %s", name)
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cached copy of remote documents")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) storeRemoveCommand(backend *string) *cobra.Command {
	return &cobra.Command{
		Use:               "rm [name]...",
		Aliases:           []string{"remove", "delete"},
		Short:             "Remove stored documents",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeStoredNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, err := c.openStore(ctx, *backend)
			if err != nil {
				return err
			}
			defer s.Close()

			for _, name := range args {
				if err := s.Delete(ctx, name); err != nil {
					if store.IsNotFound(err) {
						printWarning("%s not found", name)
						continue
					}
					return err
				}
				printSuccess("Removed %s", name)
			}
			return nil
		},
	}
}
