package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/udisondev/mixkey/internal/mix"
)

func (a *app) lsCmd() *cobra.Command {
	var names []string
	cmd := &cobra.Command{
		Use:   "ls <archive>",
		Short: "List the entry table of an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ar, err := mix.Open(args[0])
			if err != nil {
				return err
			}
			defer ar.Close()

			known := make(map[uint32]string, len(names))
			for _, n := range names {
				known[mix.EntryID(n)] = n
			}

			h := ar.Header()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d entries, body %s, encrypted=%t checksum=%t\n",
				args[0], len(h.Entries), humanize.Bytes(uint64(h.BodySize)), h.Encrypted(), h.HasChecksum())

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"#", "ID", "Name", "Offset", "Size"})
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			for i, e := range ar.Entries() {
				table.Append([]string{
					strconv.Itoa(i),
					fmt.Sprintf("%08X", e.ID),
					known[e.ID],
					strconv.FormatUint(uint64(e.Offset), 10),
					humanize.Bytes(uint64(e.Size)),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&names, "name", "n", nil, "label entries whose id matches these file names")
	return cmd
}
