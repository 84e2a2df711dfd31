// Command rosbags-convert converts a rosbag1 .bag file to a rosbag2
// directory, or a rosbag2 directory to a rosbag1 .bag file, choosing
// direction from the source path.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ternarisco/rosbags-go/convert"
	"github.com/ternarisco/rosbags-go/rosbag1"
	"github.com/ternarisco/rosbags-go/rosbag2"
	"github.com/ternarisco/rosbags-go/typesys"
)

// usageError marks an argument/flag mistake, reported with exit code 2
// instead of the converter's exit code 1.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var dst string

	root := &cobra.Command{
		Use:           "rosbags-convert <source>",
		Short:         "Convert between rosbag1 and rosbag2 bag files",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			if len(cmdArgs) != 1 {
				return &usageError{err: errors.New("exactly one source path is required")}
			}
			return convertPath(cmdArgs[0], dst)
		},
	}
	root.Flags().StringVar(&dst, "dst", "", "destination path (default derived from source)")
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

func convertPath(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return &usageError{err: fmt.Errorf("source: %w", err)}
	}

	reg := typesys.Default()

	switch {
	case info.IsDir():
		if dst == "" {
			dst = strings.TrimSuffix(filepath.Clean(src), string(filepath.Separator)) + ".bag"
		}
		return convertRosbag2ToRosbag1(reg, src, dst)

	case strings.HasSuffix(src, ".bag"):
		if dst == "" {
			dst = strings.TrimSuffix(src, ".bag")
		}
		return convertRosbag1ToRosbag2(reg, src, dst)

	default:
		return &usageError{err: fmt.Errorf("source %q is neither a directory nor a .bag file", src)}
	}
}

func convertRosbag1ToRosbag2(reg *typesys.Registry, src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer f.Close()

	r, err := rosbag1.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}

	w, err := rosbag2.NewWriter(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	if err := convert.Rosbag1ToRosbag2(reg, r, w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func convertRosbag2ToRosbag1(reg *typesys.Registry, src, dst string) error {
	r, err := rosbag2.NewReader(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	defer r.Close()

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	defer f.Close()

	w, err := rosbag1.NewWriter(f)
	if err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}

	if err := convert.Rosbag2ToRosbag1(reg, r, w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
