// Command rosbags-echo prints every message in a rosbag1 file or rosbag2
// directory as a line of JSON, decoding it against the default type
// registry regardless of which wire format the bag was recorded in.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ternarisco/rosbags-go/anyreader"
	"github.com/ternarisco/rosbags-go/jsonenc"
	"github.com/ternarisco/rosbags-go/typesys"
)

type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var topic string

	root := &cobra.Command{
		Use:           "rosbags-echo <path>",
		Short:         "Print every message in a bag as a line of JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			if len(cmdArgs) != 1 {
				return &usageError{err: errors.New("exactly one bag path is required")}
			}
			return echoPath(cmd.OutOrStdout(), cmdArgs[0], topic)
		},
	}
	root.Flags().StringVar(&topic, "topic", "", "restrict output to one topic (default: all topics)")
	root.SetArgs(args)
	root.SetOut(os.Stdout)

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

func echoPath(out io.Writer, path, topic string) error {
	reg := typesys.Default()
	r, err := anyreader.Open(reg, path)
	if err != nil {
		return err
	}
	defer r.Close()

	it, err := r.Messages()
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	defer w.Flush()
	for {
		msg, err := it.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if topic != "" && msg.Topic != topic {
			continue
		}
		line, err := jsonenc.Marshal(msg.Value)
		if err != nil {
			return fmt.Errorf("encoding message on %s: %w", msg.Topic, err)
		}
		fmt.Fprintf(w, "%s %d %s\n", msg.Topic, msg.TimeNanos, line)
	}
}
