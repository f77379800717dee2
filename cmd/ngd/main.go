package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rakesh-sdlc/ng-contracts/internal/config"
	httpinterface "github.com/rakesh-sdlc/ng-contracts/internal/interface/http"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ngd",
		Usage: "multi-asset token supply controller",
		Commands: []*cli.Command{
			serveCmd,
			statusCmd,
			listAssetsCmd,
			getAssetCmd,
			assetIdCmd,
			registeredCmd,
			supplyCmd,
			getFeeCmd,
			eventsCmd,
			registerAssetCmd,
			unregisterAssetCmd,
			changeCustodyCmd,
			pauseCmd,
			unpauseCmd,
			initExtensionCmd,
			setFeeCmd,
			mintCmd,
			mintCustodyCmd,
			burnCmd,
			burnCustodyCmd,
			batchMintCmd,
			batchBurnCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var serveCmd = &cli.Command{
	Name:   "serve",
	Usage:  "start the controller",
	Flags:  config.Flags,
	Action: serveAction,
}

func serveAction(ctx *cli.Context) error {
	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log.SetLevel(log.Level(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	defer cfg.RepoManager().Close()

	log.Debugf("config: %s", cfg)

	svc := httpinterface.NewService(
		fmt.Sprintf(":%d", cfg.Port), cfg.AdminService(), cfg.AppService(),
	)
	if err := svc.Start(); err != nil {
		return err
	}

	scheduler := cfg.SchedulerService()
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.SupplyAuditInterval > 0 {
		interval := time.Duration(cfg.SupplyAuditInterval) * time.Second
		if err := scheduler.ScheduleTaskEvery(interval, supplyAuditTask(cfg)); err != nil {
			return fmt.Errorf("failed to schedule supply audit: %w", err)
		}
		log.Infof("supply audit scheduled every %s", interval)
	}

	log.RegisterExitHandler(svc.Stop)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(
		sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGHUP, os.Interrupt,
	)
	<-sigChan

	log.Info("shutting down service...")
	log.Exit(0)
	return nil
}

// supplyAuditTask walks the registry and logs the reported supply of every
// asset. Failures are logged per asset, one misbehaving token endpoint must
// not hide the others.
func supplyAuditTask(cfg *config.Config) func() {
	return func() {
		ctx := context.Background()
		infos, err := cfg.AdminService().ListAssets(ctx)
		if err != nil {
			log.WithError(err).Error("supply audit: failed to list assets")
			return
		}

		for _, info := range infos {
			supply, err := cfg.AppService().TotalSupply(ctx, info.Name)
			if err != nil {
				log.WithError(err).Warnf("supply audit: failed to read supply of %s", info.Name)
				continue
			}
			log.WithField("asset", info.Name).
				WithField("supply", supply).
				Info("supply audit")
		}
	}
}

var statusCmd = &cli.Command{
	Name:  "status",
	Usage: "show controller status",
	Flags: []cli.Flag{urlFlag},
	Action: func(ctx *cli.Context) error {
		return request(ctx, http.MethodGet, "/status", nil)
	},
}

var listAssetsCmd = &cli.Command{
	Name:  "list",
	Usage: "list registered assets",
	Flags: []cli.Flag{urlFlag},
	Action: func(ctx *cli.Context) error {
		return request(ctx, http.MethodGet, "/assets", nil)
	},
}

var getAssetCmd = &cli.Command{
	Name:  "get",
	Usage: "show a registered asset",
	Flags: []cli.Flag{urlFlag, nameFlag},
	Action: func(ctx *cli.Context) error {
		return request(ctx, http.MethodGet, "/assets/"+ctx.String(nameFlagName), nil)
	},
}

var assetIdCmd = &cli.Command{
	Name:  "id",
	Usage: "derive the asset id of a name",
	Flags: []cli.Flag{urlFlag, nameFlag},
	Action: func(ctx *cli.Context) error {
		return request(ctx, http.MethodGet, "/assets/"+ctx.String(nameFlagName)+"/id", nil)
	},
}

var registeredCmd = &cli.Command{
	Name:  "registered",
	Usage: "check whether a name is registered",
	Flags: []cli.Flag{urlFlag, nameFlag},
	Action: func(ctx *cli.Context) error {
		return request(
			ctx, http.MethodGet, "/assets/"+ctx.String(nameFlagName)+"/registered", nil,
		)
	},
}

var supplyCmd = &cli.Command{
	Name:  "supply",
	Usage: "show the total supply of an asset",
	Flags: []cli.Flag{urlFlag, nameFlag},
	Action: func(ctx *cli.Context) error {
		return request(
			ctx, http.MethodGet, "/assets/"+ctx.String(nameFlagName)+"/supply", nil,
		)
	},
}

var eventsCmd = &cli.Command{
	Name:  "events",
	Usage: "replay the audit trail of a topic",
	Flags: []cli.Flag{urlFlag, topicFlag},
	Action: func(ctx *cli.Context) error {
		return request(
			ctx, http.MethodGet, "/events/"+ctx.String(topicFlagName), nil,
		)
	},
}

var getFeeCmd = &cli.Command{
	Name:  "get-fee",
	Usage: "show the fee of an asset",
	Flags: []cli.Flag{urlFlag, nameFlag},
	Action: func(ctx *cli.Context) error {
		return request(ctx, http.MethodGet, "/assets/"+ctx.String(nameFlagName)+"/fee", nil)
	},
}

var registerAssetCmd = &cli.Command{
	Name:  "register",
	Usage: "register a new asset",
	Flags: []cli.Flag{urlFlag, operatorFlag, nameFlag, tokenFlag, custodyFlag},
	Action: func(ctx *cli.Context) error {
		return request(ctx, http.MethodPost, "/assets", map[string]string{
			"name":           ctx.String(nameFlagName),
			"token_address":  ctx.String(tokenFlagName),
			"custody_wallet": ctx.String(custodyFlagName),
		})
	},
}

var unregisterAssetCmd = &cli.Command{
	Name:  "unregister",
	Usage: "unregister an asset",
	Flags: []cli.Flag{urlFlag, operatorFlag, nameFlag},
	Action: func(ctx *cli.Context) error {
		return request(ctx, http.MethodDelete, "/assets/"+ctx.String(nameFlagName), nil)
	},
}

var changeCustodyCmd = &cli.Command{
	Name:  "custody",
	Usage: "change the custody wallet of an asset",
	Flags: []cli.Flag{urlFlag, operatorFlag, nameFlag, custodyFlag},
	Action: func(ctx *cli.Context) error {
		return request(
			ctx, http.MethodPut, "/assets/"+ctx.String(nameFlagName)+"/custody",
			map[string]string{"custody_wallet": ctx.String(custodyFlagName)},
		)
	},
}

var pauseCmd = &cli.Command{
	Name:  "pause",
	Usage: "pause supply and registry mutations",
	Flags: []cli.Flag{urlFlag, operatorFlag},
	Action: func(ctx *cli.Context) error {
		return request(ctx, http.MethodPost, "/admin/pause", nil)
	},
}

var unpauseCmd = &cli.Command{
	Name:  "unpause",
	Usage: "resume supply and registry mutations",
	Flags: []cli.Flag{urlFlag, operatorFlag},
	Action: func(ctx *cli.Context) error {
		return request(ctx, http.MethodPost, "/admin/unpause", nil)
	},
}

var initExtensionCmd = &cli.Command{
	Name:  "init-extension",
	Usage: "initialize the fee extension (one time)",
	Flags: []cli.Flag{urlFlag, operatorFlag},
	Action: func(ctx *cli.Context) error {
		return request(ctx, http.MethodPost, "/admin/extension", nil)
	},
}

var setFeeCmd = &cli.Command{
	Name:  "set-fee",
	Usage: "set the fee of an asset",
	Flags: []cli.Flag{urlFlag, operatorFlag, nameFlag, feeFlag},
	Action: func(ctx *cli.Context) error {
		return request(
			ctx, http.MethodPut, "/assets/"+ctx.String(nameFlagName)+"/fee",
			map[string]uint64{"fee": ctx.Uint64(feeFlagName)},
		)
	},
}

var mintCmd = &cli.Command{
	Name:  "mint",
	Usage: "mint units of an asset to an account",
	Flags: []cli.Flag{urlFlag, operatorFlag, nameFlag, accountFlag, amountFlag},
	Action: func(ctx *cli.Context) error {
		return request(
			ctx, http.MethodPost, "/assets/"+ctx.String(nameFlagName)+"/mint",
			map[string]interface{}{
				"account": ctx.String(accountFlagName),
				"amount":  ctx.Uint64(amountFlagName),
			},
		)
	},
}

var mintCustodyCmd = &cli.Command{
	Name:  "mint-custody",
	Usage: "mint units of an asset to its custody wallet",
	Flags: []cli.Flag{urlFlag, operatorFlag, nameFlag, amountFlag},
	Action: func(ctx *cli.Context) error {
		return request(
			ctx, http.MethodPost, "/assets/"+ctx.String(nameFlagName)+"/mint-custody",
			map[string]uint64{"amount": ctx.Uint64(amountFlagName)},
		)
	},
}

var burnCmd = &cli.Command{
	Name:  "burn",
	Usage: "burn units of an asset from an account",
	Flags: []cli.Flag{urlFlag, operatorFlag, nameFlag, accountFlag, amountFlag},
	Action: func(ctx *cli.Context) error {
		return request(
			ctx, http.MethodPost, "/assets/"+ctx.String(nameFlagName)+"/burn",
			map[string]interface{}{
				"account": ctx.String(accountFlagName),
				"amount":  ctx.Uint64(amountFlagName),
			},
		)
	},
}

var burnCustodyCmd = &cli.Command{
	Name:  "burn-custody",
	Usage: "burn units of an asset from its custody wallet",
	Flags: []cli.Flag{urlFlag, operatorFlag, nameFlag, amountFlag},
	Action: func(ctx *cli.Context) error {
		return request(
			ctx, http.MethodPost, "/assets/"+ctx.String(nameFlagName)+"/burn-custody",
			map[string]uint64{"amount": ctx.Uint64(amountFlagName)},
		)
	},
}

var batchMintCmd = &cli.Command{
	Name:  "batch-mint",
	Usage: "mint units of an asset to many accounts in one call",
	Flags: []cli.Flag{urlFlag, operatorFlag, nameFlag, accountsFlag, amountsFlag},
	Action: func(ctx *cli.Context) error {
		return request(
			ctx, http.MethodPost, "/assets/"+ctx.String(nameFlagName)+"/batch-mint",
			map[string]interface{}{
				"accounts": ctx.StringSlice(accountsFlagName),
				"amounts":  ctx.Uint64Slice(amountsFlagName),
			},
		)
	},
}

var batchBurnCmd = &cli.Command{
	Name:  "batch-burn",
	Usage: "burn units of an asset from many accounts in one call",
	Flags: []cli.Flag{urlFlag, operatorFlag, nameFlag, accountsFlag, amountsFlag},
	Action: func(ctx *cli.Context) error {
		return request(
			ctx, http.MethodPost, "/assets/"+ctx.String(nameFlagName)+"/batch-burn",
			map[string]interface{}{
				"accounts": ctx.StringSlice(accountsFlagName),
				"amounts":  ctx.Uint64Slice(amountsFlagName),
			},
		)
	},
}
