package cli

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/PathVault/internal/vault"
)

func (a *app) putCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put <path> <local-file|->",
		Short: "Store a local file (or stdin with -) at path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[1] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[1])
			}
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			resolved, err := a.vault.CreateFile(args[0], data)
			if err != nil {
				return err
			}
			return a.printPath(cmd, resolved)
		},
	}
}

func (a *app) getCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Write a file's contents to stdout or --output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.vault.ReadFile(args[0])
			if err != nil {
				return err
			}
			if output != "" {
				return os.WriteFile(output, data, 0o644)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this local file instead of stdout")
	return cmd
}

func (a *app) renameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <path> <new-name>",
		Short: "Rename a file in place",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := a.vault.RenameFile(args[0], args[1])
			if err != nil {
				return err
			}
			return a.printPath(cmd, resolved)
		},
	}
}

func (a *app) mvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <path> <destination-folder>",
		Short: "Move a file into another folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := a.vault.MoveFile(args[0], args[1])
			if err != nil {
				return err
			}
			return a.printPath(cmd, resolved)
		},
	}
}

func (a *app) rmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.vault.DeleteFile(args[0])
		},
	}
}

func (a *app) archiveCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "archive <path>",
		Short: "Write a compressed tar of a folder",
		Long: `Write a compressed tar of a folder. Without --output the archive is
written next to the working directory as <folder>.tar.gz (or .tar.zst).
Use --output - for stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := optionalArg(args)
			if output == "" {
				name := path.Base(path.Clean("/" + folder))
				if name == "/" {
					name = "vault"
				}
				output = name + vault.ArchiveExtension(format)
			}

			if output == "-" {
				return a.vault.Archive(cmd.Context(), folder, cmd.OutOrStdout(), format)
			}

			f, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
			if err != nil {
				return err
			}
			if err := a.vault.Archive(cmd.Context(), folder, f, format); err != nil {
				f.Close()
				os.Remove(output)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"archive": output})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "archive file to create, - for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", vault.FormatGzip, "compression format: gzip or zstd")
	return cmd
}
