package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abema/go-mp4"
	"github.com/spf13/cobra"
	"github.com/sunfish-shogi/bufseekio"
)

// containers are the boxes dump descends into. Leaf boxes such as mdat are
// listed but never decoded.
var containers = map[string]bool{
	"moov": true, "trak": true, "mdia": true, "minf": true, "stbl": true,
	"udta": true, "ilst": true, "edts": true, "dinf": true, "moof": true,
	"traf": true, "mvex": true, "meta": true,
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the box tree of an MP4, M4A or MOV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return dumpBoxes(cmd.OutOrStdout(), f)
		},
	}
}

func dumpBoxes(w io.Writer, r io.ReadSeeker) error {
	rs := bufseekio.NewReadSeeker(r, 64*1024, 4)
	_, err := mp4.ReadBoxStructure(rs, func(h *mp4.ReadHandle) (any, error) {
		name := string(h.BoxInfo.Type[:])
		fmt.Fprintf(w, "%s%s size=%d offset=%d\n",
			strings.Repeat("  ", len(h.Path)-1), printable(name), h.BoxInfo.Size, h.BoxInfo.Offset)
		if containers[name] || (len(h.Path) > 1 && string(h.Path[len(h.Path)-2][:]) == "ilst") {
			return h.Expand()
		}
		return nil, nil
	})
	return err
}

// printable replaces the bytes of a box name that would garble a terminal,
// such as the 0xa9 prefix of iTunes item names.
func printable(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < 0x20 || c > 0x7e {
			fmt.Fprintf(&b, "\\x%02x", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
