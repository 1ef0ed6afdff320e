// mint-cli mints from a candy machine using the wallet from the config,
// without starting the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
	"gitlab.com/scpcorp/candy-minter/app"
	"gitlab.com/scpcorp/candy-minter/common"
	"gitlab.com/scpcorp/candy-minter/golive"
	"gitlab.com/scpcorp/candy-minter/mintflow"
	solanatoken "gitlab.com/scpcorp/candy-minter/solana"
)

const (
	actionState   = "state"
	actionBalance = "balance"
	actionMint    = "mint"
)

func usage() {
	fmt.Println("Usage: go run ./cmd/mint-cli [<options>] <action>")
	fmt.Println("Actions:")
	fmt.Println("  state    print candy machine state and go-live countdown")
	fmt.Println("  balance  print wallet balance")
	fmt.Println("  mint     mint one token")
	fmt.Println("Options are the same as for candy-minter, see --help.")
	os.Exit(1)
}

func main() {
	var config app.Config
	args, err := goflags.Parse(&config)
	if err != nil {
		if err, ok := err.(*goflags.Error); ok && err.Type == goflags.ErrHelp {
			os.Exit(2)
		}
		logrus.Fatalf("Error during flags parsing: %v.", err)
	}
	if len(args) != 1 {
		usage()
	}
	if err := app.SetupLogging(config); err != nil {
		logrus.Fatal(err)
	}

	settings, err := app.MintflowSettingsFromConfig(config)
	if err != nil {
		logrus.Fatalf("Bad config: %v", err)
	}
	wallet, err := app.LoadWallet(config)
	if err != nil {
		logrus.Fatalf("Cannot load wallet: %v", err)
	}
	client := solanatoken.NewClient(app.SolanaConfig(config))
	ctrl := mintflow.New(settings, golive.New(), client, client, client, nil)

	ctx := context.Background()
	ctrl.SetWallet(ctx, wallet)

	switch args[0] {
	case actionState:
		if err := ctrl.Refresh(ctx); err != nil {
			logrus.Fatalf("Cannot read candy machine: %v", err)
		}
		printState(ctrl)
	case actionBalance:
		if err := ctrl.RefreshBalance(ctx); err != nil {
			logrus.Fatalf("Cannot get balance: %v", err)
		}
		printBalance(ctrl.State())
	case actionMint:
		doMint(ctx, ctrl)
	default:
		logrus.Fatalf("Bad action: %s", args[0])
	}
}

func printBalance(state common.MintSessionState) {
	if state.Balance == nil {
		fmt.Printf("Wallet %s: balance unknown\n", common.ShortenAddress(state.Wallet, common.ShortAddressChars))
		return
	}
	fmt.Printf("Wallet %s: %.4f SOL\n", common.ShortenAddress(state.Wallet, common.ShortAddressChars), *state.Balance)
}

func printState(ctrl *mintflow.Controller) {
	state := ctrl.State()
	fmt.Printf("Supply: %+v\n", state.SupplyInfo)
	fmt.Printf("Sold out: %v\n", state.IsSoldOut)
	fmt.Printf("Start date: %s\n", state.StartDate)
	if cd := ctrl.Countdown(); !cd.Completed {
		fmt.Printf("Starts in: %dd %dh %dm %ds\n", cd.Days, cd.Hours, cd.Minutes, cd.Seconds)
	} else {
		fmt.Println("Minting is live")
	}
	printBalance(state)
}

func doMint(ctx context.Context, ctrl *mintflow.Controller) {
	state := ctrl.State()
	if state.IsSoldOut {
		logrus.Fatal("Candy machine is sold out")
	}
	if !state.IsActive {
		logrus.Fatalf("Minting starts at %s", state.StartDate)
	}
	n, err := ctrl.Mint(ctx)
	if err != nil {
		logrus.Fatalf("Cannot mint: %v", err)
	}
	fmt.Printf("%s: %s\n", n.Severity, n.Message)
	printState(ctrl)
	if n.Severity != common.SeveritySuccess {
		os.Exit(1)
	}
}
