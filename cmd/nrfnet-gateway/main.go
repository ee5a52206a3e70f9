// Command nrfnet-gateway runs a single nRFNet node attached to a radio
// transport (real hardware over gpiocdev+SPI, or a pty loopback for
// development), optionally bridging it to a remote TCP client and
// advertising itself on the LAN via mDNS/DNS-SD.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	nrfnet "github.com/doismellburning/nrfnet/src"
	"github.com/doismellburning/nrfnet/src/bridge"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "/etc/nrfnet/gateway.yaml", "path to gateway config file")
		listenAddr = pflag.String("listen", "", "TCP address to bridge remote clients on, e.g. :7246")
		stats      = pflag.Bool("stats", false, "periodically log telemetry counters")
		verbose    = pflag.BoolP("verbose", "v", false, "enable debug logging")
		discover   = pflag.Bool("discover", false, "list attached serial devices and exit")
	)
	pflag.Parse()

	logger := log.New(os.Stderr)
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if *discover {
		nodes, err := discoverSerialDevices()
		if err != nil {
			logger.Fatal("discovering serial devices", "err", err)
		}
		if len(nodes) == 0 {
			fmt.Println("no serial devices found")
		}
		for _, n := range nodes {
			fmt.Println(n)
		}
		return
	}

	cfg, err := nrfnet.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("loading config", "path", *configPath, "err", err)
	}

	addr, err := nrfnet.ParseAddr(cfg.Address)
	if err != nil {
		logger.Fatal("invalid address in config", "address", cfg.Address, "err", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	radio, closeRadio, err := openRadio(cfg, logger)
	if err != nil {
		logger.Fatal("opening radio", "err", err)
	}
	defer closeRadio()

	clock := nrfnet.NewSystemClock()
	node := nrfnet.NewNode(addr, cfg.NodeConfig(), clock, radio, logger.With("node", addr.String()))
	if cfg.Forward {
		node.SetForward(func(frame []byte, hdr nrfnet.Header) error {
			logger.Debug("forwarding frame", "to", hdr.To)
			return radio.Send(frame)
		})
	}

	if cfg.Advertise {
		name := cfg.AdvertiseName
		if name == "" {
			name = fmt.Sprintf("nrfnet-%s", addr.String())
		}
		if err := bridge.Advertise(ctx, name, cfg.AdvertisePort); err != nil {
			logger.Error("mDNS advertisement failed to start", "err", err)
		}
	}

	if *stats {
		go logStats(ctx, node, logger)
	}

	if *listenAddr != "" {
		go runBridgeListener(ctx, *listenAddr, radio, node, logger)
	}

	logger.Info("gateway running", "address", addr.String(), "radio", cfg.Radio)
	runLoop(ctx, radio, node, logger)
}

// radioDevice is the combined sink+source surface a Node's transport needs,
// satisfied by both the pty loopback and the gpiocdev+spidev hardware
// backend.
type radioDevice interface {
	nrfnet.FrameSink
	nrfnet.FrameSource
}

func openRadio(cfg nrfnet.FileConfig, logger *log.Logger) (radioDevice, func() error, error) {
	switch cfg.Radio {
	case "pty":
		pair, err := nrfnet.NewPtyPair()
		if err != nil {
			return nil, nil, err
		}
		logger.Info("pty radio ready", "slave", pair.Slave.Name())
		return loopbackRadio{nrfnet.NewFileRadio(pair.Master)}, pair.Close, nil
	case "gpio":
		logger.Info("opening gpio radio", "chip", cfg.GPIOChip, "spi", cfg.SPIDevice)
		return openGPIORadio(cfg)
	default:
		return nil, nil, fmt.Errorf("nrfnet-gateway: unsupported radio backend %q", cfg.Radio)
	}
}

// loopbackRadio adapts a *FileRadio to satisfy the combined sink+source
// interface returned by openRadio.
type loopbackRadio struct {
	*nrfnet.FileRadio
}

func runLoop(ctx context.Context, radio nrfnet.FrameSource, node *nrfnet.Node, logger *log.Logger) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		default:
		}

		frame, err := radio.Recv()
		if err != nil {
			logger.Error("radio receive failed", "err", err)
			return
		}
		if frame == nil {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		if _, hdr, ok := node.HandleFrame(frame); ok {
			logger.Info("datagram delivered", "from", hdr.From, "id", hdr.ID)
		}
	}
}

func logStats(ctx context.Context, node *nrfnet.Node, logger *log.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.Info("telemetry", "counters", node.Stats.Snapshot())
		}
	}
}

func runBridgeListener(ctx context.Context, addr string, radio radioDevice, node *nrfnet.Node, logger *log.Logger) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("bridge listener failed", "addr", addr, "err", err)
		return
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		b := &bridge.Bridge{Radio: radio, Sink: radio, Remote: conn, Logger: logger}
		go func() {
			defer conn.Close()
			if err := b.RunRadioToRemote(); err != nil {
				logger.Debug("bridge client disconnected", "err", err)
			}
		}()
	}
}
