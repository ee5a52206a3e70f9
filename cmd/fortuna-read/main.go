// Command fortuna-read seeds a Fortuna generator from the OS CSPRNG and
// prints pseudorandom bytes, useful for exercising the reseed gate and
// forward-secrecy rekeying outside of a full gateway process.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/doismellburning/nrfnet/fortuna"
)

func main() {
	var (
		count   = pflag.IntP("count", "n", 32, "number of random bytes to print")
		pools   = pflag.Int("pools", fortuna.DefaultPools, "number of entropy pools")
		timeout = pflag.Uint64("reseed-timeout-us", 100000, "minimum microseconds between reseeds")
	)
	pflag.Parse()

	s := fortuna.New(*pools)

	seed := make([]byte, 64)
	if _, err := rand.Read(seed); err != nil {
		fmt.Fprintf(os.Stderr, "fortuna-read: seeding from OS CSPRNG: %v\n", err)
		os.Exit(1)
	}
	for off := 0; off < len(seed); off += 32 {
		if err := s.AddEntropy(seed[off:off+32], 0, 0); err != nil {
			fmt.Fprintf(os.Stderr, "fortuna-read: %v\n", err)
			os.Exit(1)
		}
	}

	out := make([]byte, *count)
	if err := s.Read(out, uint64(time.Now().UnixMicro()), *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "fortuna-read: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hex.EncodeToString(out))
}
