// Command rosbags-reindex repairs a rosbag1 file that was left without an
// index region, typically because the recording process was killed before
// it could close the bag. It performs a single linear scan of the source
// and rewrites every connection and message into a fresh, fully indexed
// bag, then swaps the result into place, moving the original aside with an
// ".orig" suffix.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ternarisco/rosbags-go/rosbag1"
)

type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var compression string
	var force bool

	root := &cobra.Command{
		Use:           "rosbags-reindex <file>",
		Short:         "Reindex a rosbag1 file by rewriting its messages, in file order, into a freshly indexed bag",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			if len(cmdArgs) != 1 {
				return &usageError{err: errors.New("exactly one bag path is required")}
			}
			return reindex(cmdArgs[0], compression, force)
		},
	}
	root.Flags().StringVar(&compression, "compression", rosbag1.CompressionLZ4, "output chunk compression: none or lz4")
	root.Flags().BoolVarP(&force, "force", "f", false, "reindex even if the bag is already indexed")
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return 0
	}

	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintln(os.Stderr, usageErr.Error())
		return 2
	}
	fmt.Fprintln(os.Stderr, err.Error())
	return 1
}

// isIndexed reports whether f already carries a usable index, leaving its
// read position unchanged either way.
func isIndexed(f *os.File) bool {
	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return false
	}
	defer f.Seek(pos, io.SeekStart)

	r, err := rosbag1.NewReader(f)
	if err != nil {
		return false
	}
	_, err = r.Info()
	return err == nil
}

func reindex(path, compression string, force bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if !force && isIndexed(f) {
		fmt.Printf("%s is already indexed\n", path)
		return nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding %s: %w", path, err)
	}

	tmp, err := os.CreateTemp("", "rosbags-reindex-*.bag")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := rewrite(f, tmp, compression); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("reindexing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", path, err)
	}

	if err := os.Rename(path, path+".orig"); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("moving original aside: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("installing reindexed bag: %w", err)
	}
	fmt.Printf("%s reindexed. Original file moved to %s.orig\n", path, path)
	return nil
}

// rewrite performs one linear pass over src, writing every connection (on
// its first message) and message to dst in the order encountered.
func rewrite(src *os.File, dst *os.File, compression string) error {
	r, err := rosbag1.NewReader(src)
	if err != nil {
		return err
	}
	w, err := rosbag1.NewWriter(dst, rosbag1.WithCompression(compression))
	if err != nil {
		return err
	}

	it, err := r.Messages(rosbag1.ScanLinear(true))
	if err != nil {
		w.Close()
		return err
	}

	newIDs := make(map[uint32]uint32)
	for {
		conn, msg, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// The source is presumed corrupt past this point; the bytes
			// already written are kept, matching a reindex tool's purpose.
			fmt.Fprintf(os.Stderr, "stopping at corrupt record: %s\n", err)
			break
		}
		newID, ok := newIDs[conn.Conn]
		if !ok {
			newID, err = w.WriteConnection(conn.Topic, conn.Data)
			if err != nil {
				w.Close()
				return err
			}
			newIDs[conn.Conn] = newID
		}
		if err := w.WriteMessage(newID, msg.Time, msg.Data); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
