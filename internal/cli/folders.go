package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) mkdirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a folder and any missing parents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := a.vault.CreateFolder(args[0])
			if err != nil {
				return err
			}
			return a.printPath(cmd, resolved)
		},
	}
}

func (a *app) rmdirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rmdir <path>",
		Short: "Delete a folder and everything below it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.vault.DeleteFolder(args[0])
		},
	}
}

func (a *app) rendirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rendir <path> <new-name>",
		Short: "Rename a folder in place",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := a.vault.RenameFolder(args[0], args[1])
			if err != nil {
				return err
			}
			return a.printPath(cmd, resolved)
		},
	}
}

func (a *app) mvdirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mvdir <path> <destination-folder>",
		Short: "Move a folder into another folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := a.vault.MoveFolder(args[0], args[1])
			if err != nil {
				return err
			}
			return a.printPath(cmd, resolved)
		},
	}
}

func (a *app) treeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tree [path]",
		Short: "Print the nested folder hierarchy as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.vault.GetFolderTree(optionalArg(args))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), tree)
		},
	}
}

func (a *app) lsCommand() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List the immediate children of a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if long {
				entries, err := a.vault.ListFolder(optionalArg(args))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), entries)
			}
			names, err := a.vault.GetFolderContent(optionalArg(args))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), names)
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "include size, mode, modification time and MIME type")
	return cmd
}

func (a *app) findCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find <path> <pattern>",
		Short: "Find files below a folder matching a glob such as **/*.txt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := a.vault.Search(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), matches)
		},
	}
}

// optionalArg returns the first argument or "" for the base directory.
func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
