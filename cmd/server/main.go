package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"mentions/pkg/api"
	"mentions/pkg/filter"
	"mentions/pkg/sentiment"
	"mentions/pkg/stem"
)

type Config struct {
	ServiceName string `toml:"serviceName"`
	RulesPath   string `toml:"rulesPath"`
	Lexicon     string `toml:"lexicon"`
	Language    string `toml:"language"`

	HTTPAddr   string `toml:"httpAddr"`
	LogLevel   string `toml:"logLevel"`
	KafkaAddr  string `toml:"kafkaAddr"`
	KafkaTopic string `toml:"kafkaTopic"`
	KafkaBatch int    `toml:"kafkaBatch"`
}

func main() {
	var (
		configPath string
		rulesPath  string
		lexicon    string
		httpAddr   string
		logLevel   string
		kafkaAddr  string
		kafkaTopic string
		kafkaBatch int
	)

	flag.StringVar(&configPath, "config", "cmd/server/config.toml", "Path to TOML config file")
	flag.StringVar(&rulesPath, "rules", "", "Path to JSON rules file")
	flag.StringVar(&lexicon, "lexicon", "", "Polarity lexicon: JSON file path or http(s) URL. Empty uses the embedded AFINN subset.")
	flag.StringVar(&httpAddr, "http", "", "HTTP server address in the form 'host:port'.")
	flag.StringVar(&logLevel, "log", "", "Log level: debug, info, warn, error.")
	flag.StringVar(&kafkaAddr, "kafka", "", "Kafka server address in the form 'host:port'.")
	flag.StringVar(&kafkaTopic, "topic", "", "Kafka topic.")
	flag.IntVar(&kafkaBatch, "batch", 0, "Kafka batch size.")
	flag.Parse()

	cfg := Config{
		ServiceName: "mentions",
		RulesPath:   "cmd/server/rules.json",
		Language:    "english",
		HTTPAddr:    ":8055",
		LogLevel:    "info",
	}
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		log.Fatalf("[server] failed to load config file %s: %v", configPath, err)
	}

	// Override config with flags if set
	if rulesPath != "" {
		cfg.RulesPath = rulesPath
	}
	if lexicon != "" {
		cfg.Lexicon = lexicon
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if kafkaAddr != "" {
		cfg.KafkaAddr = kafkaAddr
	}
	if kafkaTopic != "" {
		cfg.KafkaTopic = kafkaTopic
	}
	if kafkaBatch != 0 {
		cfg.KafkaBatch = kafkaBatch
	}

	if !strings.Contains(cfg.HTTPAddr, ":") {
		log.Warn("[server] use ':' before port number, e.g. ':8080'")
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	}

	stemmer, err := stem.New(cfg.Language)
	if err != nil {
		log.Fatalf("[server] failed to create stemmer: %v", err)
	}
	log.Infof("[server] stemming keywords with the %s snowball stemmer", stemmer.Language())

	lexCtx, lexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	lex, err := sentiment.OpenLexicon(lexCtx, cfg.Lexicon)
	lexCancel()
	if err != nil {
		log.Fatalf("[server] failed to load lexicon %q: %v", cfg.Lexicon, err)
	}

	opts := []filter.Option{
		filter.WithStemmer(stemmer),
		filter.WithGate(sentiment.NewAnalyzer(lex, stemmer)),
	}

	rules, err := filter.LoadRules(cfg.RulesPath)
	if err != nil {
		log.Fatalf("[server] failed to load rules file %s: %v", cfg.RulesPath, err)
	}
	strategy, err := rules.Build(opts...)
	if err != nil {
		log.Fatalf("[server] failed to build %s strategy: %v", rules.Name(), err)
	}
	log.Infof("[server] using %s strategy with %d patterns", rules.Name(), len(rules.Patterns))

	var kafkaWriter api.MessageWriter
	if cfg.KafkaAddr != "" && cfg.KafkaTopic != "" {
		kw := &kafka.Writer{
			Addr:      kafka.TCP(cfg.KafkaAddr),
			Topic:     cfg.KafkaTopic,
			BatchSize: cfg.KafkaBatch,
		}
		defer kw.Close()

		err := createTopic(kw.Addr.String(), kw.Topic)
		if err != nil {
			log.Warnf("[server] failed to create Kafka topic: %v", err)
		}
		kafkaWriter = kw
	} else {
		log.Warnf("[server] kafka was not configured, logs will not be sent to Kafka")
	}

	api, err := api.New(cfg.ServiceName, filter.New(strategy), kafkaWriter, opts...)
	if err != nil {
		log.Fatalf("[server] failed to create API: %v", err)
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Infof("[server] starting on %v", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[server] failed to start: %v", err)
			return
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownRelease()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("[server] HTTP server shutdown error: %v", err)
	} else {
		log.Info("[server] HTTP server shut down gracefully")
	}
}

func createTopic(broker, topic string) error {
	conn, err := kafka.DialContext(context.Background(), "tcp", broker)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
}
