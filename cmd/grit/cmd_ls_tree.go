package main

import (
	"fmt"

	"github.com/odvcencio/grit/pkg/object"
	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newLsTreeCmd() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "ls-tree <hash|HEAD>",
		Short: "List the contents of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			treeHash, err := resolveTreeHash(r, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if recursive {
				files, err := r.FlattenTree(treeHash)
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintf(out, "%s %s %s\t%s\n", f.Mode, object.TypeBlob, f.BlobHash, f.Path)
				}
				return nil
			}

			tr, err := r.Store.ReadTree(treeHash)
			if err != nil {
				return err
			}
			for _, e := range tr.Entries {
				kind := object.TypeBlob
				if e.IsDir {
					kind = object.TypeTree
				}
				fmt.Fprintf(out, "%s %s %s\t%s\n", e.Mode, kind, e.Hash, e.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "recurse into subtrees, listing files only")
	return cmd
}

// resolveTreeHash accepts "HEAD", a commit hash, or a tree hash and returns
// the hash of the tree to list.
func resolveTreeHash(r *repo.Repo, arg string) (object.Hash, error) {
	h := object.Hash(arg)
	if arg == "HEAD" {
		var err error
		h, err = r.ResolveRef("HEAD")
		if err != nil {
			return "", fmt.Errorf("resolve HEAD: %w", err)
		}
	}

	objType, _, err := r.Store.Read(h)
	if err != nil {
		return "", err
	}
	switch objType {
	case object.TypeTree:
		return h, nil
	case object.TypeCommit:
		c, err := r.Store.ReadCommit(h)
		if err != nil {
			return "", err
		}
		return c.TreeHash, nil
	default:
		return "", fmt.Errorf("object %s is a %s, not a tree or commit", h, objType)
	}
}
