// Command nrfnetctl inspects nRFNet addresses and headers from the command
// line: parsing, validating, and printing the derived address info or wire
// encoding, without needing a running gateway.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	nrfnet "github.com/doismellburning/nrfnet/src"
)

func main() {
	var (
		addrStr  = pflag.StringP("addr", "a", "", "address to inspect, e.g. 05555")
		toStr    = pflag.String("to", "", "destination address for header encoding")
		length   = pflag.Uint8("length", 0, "datagram length for header encoding")
		offset   = pflag.Uint8("offset", 0, "fragment offset for header encoding")
		next     = pflag.Uint8("next", 0, "routing field for header encoding")
		id       = pflag.Uint16("id", 0, "datagram id for header encoding")
		showInfo = pflag.Bool("info", false, "print derived AddrInfo for -addr")
	)
	pflag.Parse()

	if *addrStr == "" {
		fmt.Fprintln(os.Stderr, "usage: nrfnetctl --addr 05555 [--info] [--to 0321 --length N --offset N --next N --id N]")
		os.Exit(2)
	}

	addr, err := nrfnet.ParseAddr(*addrStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nrfnetctl: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("addr:  %s (valid=%v)\n", addr, addr.Valid())

	if *showInfo {
		info := nrfnet.NewAddrInfo(addr)
		fmt.Printf("level: %d\n", info.Level)
		fmt.Printf("mask:  %s\n", info.Mask)
		fmt.Printf("parent: %s (pipe %d)\n", info.ParentAddr, info.ParentPipe)
		for p := nrfnet.Pipe(0); p < 6; p++ {
			phys := nrfnet.PhysPipeAddr(addr, p)
			fmt.Printf("pipe %d: % x\n", p, phys)
		}
	}

	if *toStr != "" {
		to, err := nrfnet.ParseAddr(*toStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "nrfnetctl: %v\n", err)
			os.Exit(1)
		}
		hdr := nrfnet.Header{From: addr, To: to, ID: *id, Length: *length, Offset: *offset, Next: *next}
		fmt.Printf("header valid: %v\n", hdr.Valid())
		fmt.Printf("fragments: %d\n", hdr.Fragments())
		raw := hdr.Compress()
		fmt.Printf("wire: % x\n", raw)
	}
}
