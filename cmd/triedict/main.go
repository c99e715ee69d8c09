// triedict gRPC Server
// Provides remote inspection of patricia trie dictionary nodes
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/nainya/triedict/internal/logger"
	"github.com/nainya/triedict/internal/metrics"
	"github.com/nainya/triedict/internal/server"
	"github.com/nainya/triedict/pkg/buffer"
	"github.com/nainya/triedict/pkg/codec"
	"github.com/nainya/triedict/pkg/forgetting"
	"github.com/nainya/triedict/pkg/probability"
	"github.com/nainya/triedict/pkg/trie"
	"github.com/nainya/triedict/pkg/wal"
)

var (
	port          = flag.Int("port", 50051, "The server port")
	metricsPort   = flag.Int("metrics-port", 9090, "The observability HTTP port")
	dictPath      = flag.String("dict", "main.dict", "Dictionary body file (original segment)")
	probsPath     = flag.String("probs", "", "LevelDB probability store directory; empty for none")
	journalPath   = flag.String("journal", "", "Journal for additional-segment appends; empty for none")
	formatVersion = flag.Int("format-version", codec.Version4Dynamic.Version, "Dictionary format version")
	maxAdditional = flag.Int("max-additional", 16<<20, "Capacity of the additional segment in bytes")
	maxMoveHops   = flag.Int("max-move-hops", trie.DefaultMaxMoveHops, "Moved-node forwards followed before reporting corruption")
	levelDown     = flag.Duration("level-down", forgetting.DefaultLevelDownDuration, "Time for an unused word to fully decay one step range")
	logLevel      = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	pretty        = flag.Bool("pretty", false, "Pretty-print logs for development")
)

func main() {
	flag.Parse()

	logger.InitGlobalLogger(logger.Config{Level: *logLevel, Pretty: *pretty})
	log := logger.GetGlobalLogger()

	if err := run(log); err != nil {
		log.Fatal("triedict server failed").Err(err).Send()
	}
}

func run(log *logger.Logger) error {
	buf, err := buffer.OpenFile(*dictPath, *maxAdditional)
	if err != nil {
		return fmt.Errorf("failed to load dictionary: %w", err)
	}
	defer buf.Close()

	if *journalPath != "" {
		journal, err := wal.Open(*journalPath)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer journal.Close()

		n, err := wal.Attach(buf, journal)
		if err != nil {
			return fmt.Errorf("failed to replay journal: %w", err)
		}
		log.Info("journal replayed").Int("entries", n).Int("tail_position", buf.TailPosition()).Send()
	}

	var probs probability.Store
	if *probsPath != "" {
		store, err := probability.OpenLevelStore(*probsPath)
		if err != nil {
			return err
		}
		defer store.Close()
		probs = store
	} else {
		log.Warn("no probability store configured").Send()
		probs = probability.NewMemStore()
	}

	format := codec.FormatOptions{Version: *formatVersion, SupportsDynamicUpdate: true}
	decoder, err := codec.DecoderFor(format)
	if err != nil {
		return err
	}

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)
	m.UpdateBufferStats(buf.OriginalSize(), buf.TailPosition())

	curve := forgetting.NewCurve()
	curve.LevelDownDuration = *levelDown

	reader, err := trie.NewNodeReader(trie.NodeReaderConfig{
		Buffer:        buf,
		Decoder:       decoder,
		Probabilities: probs,
		Curve:         curve,
		MaxMoveHops:   *maxMoveHops,
		Logger:        log.ReaderLogger(*dictPath),
		Metrics:       m,
	})
	if err != nil {
		return err
	}

	log.LogServerStart(*port, *dictPath, buf.TailPosition())

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", *port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(server.GrpcMetricsInterceptor(m, log.GrpcLogger("unary"))),
	)
	hs := server.Register(grpcServer, server.NewServer(reader, log))

	// Register reflection service for grpcurl/grpcui
	reflection.Register(grpcServer)

	obs := server.NewObservabilityServer(*metricsPort, prometheus.DefaultGatherer,
		func() bool { return buf.TailPosition() > 0 }, log)
	go func() {
		if err := obs.Start(); err != nil {
			log.Error("observability server stopped").Err(err).Send()
		}
	}()

	done := make(chan struct{})
	go m.StartUptime(done)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.LogServerShutdown()
		close(done)
		hs.Shutdown()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		obs.Shutdown(ctx)
		grpcServer.GracefulStop()
	}()

	log.LogServerReady(*port)
	if err := grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}
