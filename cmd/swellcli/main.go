package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/RITTUVIK/Swell-Bible/config"
	"github.com/RITTUVIK/Swell-Bible/domain"
	"github.com/RITTUVIK/Swell-Bible/service/connection"
	"github.com/RITTUVIK/Swell-Bible/service/swell"
)

const usage = `swellcli <command> [flags]

Commands:
  balance   -owner <address>                 print the SWELL balance of an owner
  transfer  -to <address> -amount <decimal>  send SWELL (key from SWELL_PRIVATE_KEY)
  health    check RPC node health and current slot
  fee       print the suggested priority fee in micro-lamports

Global flags:
  -config <path>   config file (default swell.yaml when present)
`

func main() {
	log.SetDefault(log.NewLogger(log.NewTerminalHandler(os.Stderr, true)))

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	command := os.Args[1]
	flags := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := flags.String("config", "", "path to config file")
	owner := flags.String("owner", "", "owner address")
	to := flags.String("to", "", "recipient address")
	amountStr := flags.String("amount", "", "transfer amount")
	if err := flags.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	provider := connection.New(cfg)
	service := swell.NewService(cfg, provider.Client())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch command {
	case "balance":
		err = runBalance(ctx, cfg, service, *owner)
	case "transfer":
		err = runTransfer(ctx, service, *to, *amountStr)
	case "health":
		err = runHealth(ctx, provider)
	case "fee":
		err = runFee(ctx, provider)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Error("command failed", "command", command, "code", swell.CodeOf(err), "err", err)
		os.Exit(1)
	}
}

func runBalance(ctx context.Context, cfg *config.Config, service *swell.Service, owner string) error {
	if owner == "" {
		return fmt.Errorf("balance requires -owner")
	}
	key, err := solana.PublicKeyFromBase58(owner)
	if err != nil {
		return fmt.Errorf("invalid owner address %q: %w", owner, err)
	}

	balance, err := service.Balance(ctx, key)
	if err != nil {
		return err
	}

	fmt.Printf("owner:          %s\n", key)
	fmt.Printf("token account:  %s\n", balance.Account)
	fmt.Printf("exists:         %v\n", balance.AccountExists)
	fmt.Printf("balance:        %s SWELL (%d raw)\n", balance.Amount, balance.RawAmount)
	fmt.Printf("explorer:       %s\n", cfg.AddressURL(balance.Account.String()))
	return nil
}

func runTransfer(ctx context.Context, service *swell.Service, to, amountStr string) error {
	if to == "" || amountStr == "" {
		return fmt.Errorf("transfer requires -to and -amount")
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}

	privateKey := os.Getenv("SWELL_PRIVATE_KEY")
	if privateKey == "" {
		return fmt.Errorf("SWELL_PRIVATE_KEY is not set")
	}
	signer, err := domain.LocalSignerFromBase58(privateKey)
	if err != nil {
		return fmt.Errorf("invalid SWELL_PRIVATE_KEY: %w", err)
	}

	log.Info("sending transfer", "from", signer.PublicKey(), "to", to, "amount", amount)
	result, err := service.Transfer(ctx, domain.TransferRequest{
		Sender:    signer,
		Recipient: to,
		Amount:    amount,
	})
	if err != nil {
		return err
	}

	fmt.Printf("signature:  %s\n", result.Signature)
	fmt.Printf("slot:       %d\n", result.Slot)
	if result.BlockTime != nil {
		fmt.Printf("block time: %s\n", time.Unix(*result.BlockTime, 0).UTC().Format(time.RFC3339))
	}
	fmt.Printf("explorer:   %s\n", result.ExplorerURL)
	return nil
}

func runHealth(ctx context.Context, provider *connection.Provider) error {
	healthy := provider.HealthCheck(ctx)
	fmt.Printf("healthy: %v\n", healthy)

	slot, err := provider.Slot(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("slot:    %d\n", slot)
	return nil
}

func runFee(ctx context.Context, provider *connection.Provider) error {
	fee, err := provider.SuggestPriorityFee(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("suggested priority fee: %d micro-lamports per compute unit\n", fee)
	return nil
}
