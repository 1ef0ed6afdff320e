package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"
	"github.com/starius/api2"
	"gitlab.com/scpcorp/candy-minter"
	"gitlab.com/scpcorp/candy-minter/common"
	"gitlab.com/scpcorp/candy-minter/golive"
	"gitlab.com/scpcorp/candy-minter/mintdb"
	"gitlab.com/scpcorp/candy-minter/mintflow"
	solanatoken "gitlab.com/scpcorp/candy-minter/solana"
)

type Config struct {
	ApiAddr   string `short:"a" env:"API_ADDR" default:":9580" description:"host:port that the API server listens on"`
	DBCfgPath string `long:"mint-db-cfg" env:"DB_CFG_PATH" description:"Path to mint journal DB config, journal is disabled if empty"`

	HeliusApiKey     string `long:"helius-api-key" env:"HELIUS_API_KEY"`
	SolanaKeygenFile string `long:"solana-keygen-file" env:"SOLANA_KEYGEN_FILE" description:"Wallet keypair in solana-keygen format"`
	WalletSecret     string `long:"wallet-secret" env:"WALLET_SECRET" description:"Base58 wallet secret key, used if no keygen file is given"`
	SolanaDevnet     bool   `long:"solana-use-devnet" env:"SOLANA_USE_DEVNET"`

	CandyMachineID string `long:"candy-machine-id" env:"CANDY_MACHINE_ID" required:"true"`
	ConfigAddress  string `long:"candy-machine-config" env:"CANDY_MACHINE_CONFIG" required:"true"`
	Treasury       string `long:"treasury-address" env:"TREASURY_ADDRESS" required:"true"`
	StartDate      string `long:"start-date" env:"START_DATE" description:"Go-live date (RFC 3339) used until the candy machine is read"`

	TxTimeout            time.Duration `long:"tx-timeout" env:"TX_TIMEOUT" default:"30s"`
	Commitment           string        `long:"commitment" env:"COMMITMENT" default:"confirmed"`
	PollInterval         time.Duration `long:"poll-interval" env:"POLL_INTERVAL" default:"1s"`
	NotificationDuration time.Duration `long:"notification-duration" env:"NOTIFICATION_DURATION" default:"6s"`
	RefreshInterval      time.Duration `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"0s" description:"Period of candy machine refresh, 0 disables it"`

	LogLevel string `long:"log-level" env:"LOG_LEVEL" default:"info"`
	LogJSON  bool   `long:"log-json" env:"LOG_JSON"`
}

func SetupLogging(c Config) error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("bad log level: %w", err)
	}
	logrus.SetLevel(level)
	if c.LogJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}

func parseStartDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func MintflowSettingsFromConfig(c Config) (mintflow.Settings, error) {
	candyMachineID, err := solana.PublicKeyFromBase58(c.CandyMachineID)
	if err != nil {
		return mintflow.Settings{}, fmt.Errorf("bad candy machine id: %w", err)
	}
	config, err := solana.PublicKeyFromBase58(c.ConfigAddress)
	if err != nil {
		return mintflow.Settings{}, fmt.Errorf("bad candy machine config: %w", err)
	}
	treasury, err := solana.PublicKeyFromBase58(c.Treasury)
	if err != nil {
		return mintflow.Settings{}, fmt.Errorf("bad treasury address: %w", err)
	}
	startDate, err := parseStartDate(c.StartDate)
	if err != nil {
		return mintflow.Settings{}, fmt.Errorf("bad start date: %w", err)
	}
	return mintflow.Settings{
		CandyMachineID:       candyMachineID,
		Config:               config,
		Treasury:             treasury,
		StartDate:            startDate,
		TxTimeout:            c.TxTimeout,
		Commitment:           rpc.CommitmentType(c.Commitment),
		PollInterval:         c.PollInterval,
		NotificationDuration: c.NotificationDuration,
	}, nil
}

// LoadWallet reads the wallet from the keygen file or, if it is not set,
// from the base58 secret.
func LoadWallet(c Config) (common.Wallet, error) {
	switch {
	case c.SolanaKeygenFile != "":
		return solanatoken.NewWalletFromKeygenFile(c.SolanaKeygenFile)
	case c.WalletSecret != "":
		return solanatoken.NewWalletFromBase58(c.WalletSecret)
	default:
		return nil, fmt.Errorf("no wallet: set either solana-keygen-file or wallet-secret")
	}
}

func SolanaConfig(c Config) solanatoken.Config {
	if c.SolanaDevnet {
		return solanatoken.NewDevNetConfig(c.HeliusApiKey)
	}
	return solanatoken.NewMainNetConfig(c.HeliusApiKey)
}

type Minter struct {
	server *http.Server

	minterCloser io.Closer
	db           *sql.DB

	log *logrus.Entry
}

func New() *Minter {
	return &Minter{
		log: logrus.StandardLogger().WithField("type", "app"),
	}
}

func (m *Minter) Start(c Config) error {
	settings, err := MintflowSettingsFromConfig(c)
	if err != nil {
		return fmt.Errorf("failed to parse mint settings: %w", err)
	}
	wallet, err := LoadWallet(c)
	if err != nil {
		return fmt.Errorf("failed to load wallet: %w", err)
	}

	// Interfaces stay nil when the journal is disabled.
	var journal mintflow.Journal
	var history minter.Journal
	if c.DBCfgPath != "" {
		m.db = mintdb.OpenPostgresWithRetries(c.DBCfgPath)
		mdb, err := mintdb.NewDB(m.db)
		if err != nil {
			return fmt.Errorf("failed to initialize mintDB: %w", err)
		}
		journal, history = mdb, mdb
	}

	client := solanatoken.NewClient(SolanaConfig(c))
	ctrl := mintflow.New(settings, golive.New(), client, client, client, journal)
	ctrl.SetWallet(context.Background(), wallet)
	srv := minter.New(minter.Settings{
		TickInterval:    time.Second,
		RefreshInterval: c.RefreshInterval,
	}, ctrl, history)

	routes := minter.GetRoutes(srv)
	mux := http.NewServeMux()
	api2.BindRoutes(mux, routes)

	m.log.WithFields(logrus.Fields{
		"addr":   c.ApiAddr,
		"wallet": wallet.PublicKey().String(),
	}).Info("listening")
	m.server = &http.Server{Addr: c.ApiAddr, Handler: mux}
	m.minterCloser = srv

	go func() {
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.log.WithError(err).Error("server.ListenAndServe failed")
		}
	}()

	return nil
}

func (m *Minter) Close() {
	if m.server != nil {
		if err := m.server.Close(); err != nil {
			m.log.WithError(err).Warn("server.Close failed")
		}
	}
	if m.minterCloser != nil {
		if err := m.minterCloser.Close(); err != nil {
			m.log.WithError(err).Warn("minter.Close failed")
		}
	}
	if m.db != nil {
		if err := m.db.Close(); err != nil {
			m.log.WithError(err).Warn("db.Close failed")
		}
	}
}
