package main

import (
	"fmt"

	"github.com/rakesh-sdlc/ng-contracts/internal/config"
	"github.com/urfave/cli/v2"
)

const (
	urlFlagName      = "url"
	operatorFlagName = "operator"
	nameFlagName     = "name"
	tokenFlagName    = "token"
	custodyFlagName  = "custody"
	accountFlagName  = "account"
	amountFlagName   = "amount"
	accountsFlagName = "accounts"
	amountsFlagName  = "amounts"
	feeFlagName      = "fee"
	topicFlagName    = "topic"
)

var (
	urlFlag = &cli.StringFlag{
		Name:  urlFlagName,
		Usage: "the url where to reach the controller",
		Value: fmt.Sprintf("http://127.0.0.1:%d", config.DefaultPort),
	}
	operatorFlag = &cli.StringFlag{
		Name:     operatorFlagName,
		Usage:    "operator address sent as caller identity",
		EnvVars:  []string{"NGD_OPERATOR"},
		Required: true,
	}
	nameFlag = &cli.StringFlag{
		Name:     nameFlagName,
		Usage:    "asset name",
		Required: true,
	}
	tokenFlag = &cli.StringFlag{
		Name:     tokenFlagName,
		Usage:    "token contract address",
		Required: true,
	}
	custodyFlag = &cli.StringFlag{
		Name:     custodyFlagName,
		Usage:    "custody wallet address",
		Required: true,
	}
	accountFlag = &cli.StringFlag{
		Name:     accountFlagName,
		Usage:    "account address",
		Required: true,
	}
	amountFlag = &cli.Uint64Flag{
		Name:     amountFlagName,
		Usage:    "amount of units",
		Required: true,
	}
	accountsFlag = &cli.StringSliceFlag{
		Name:     accountsFlagName,
		Usage:    "account addresses, one per entry",
		Required: true,
	}
	amountsFlag = &cli.Uint64SliceFlag{
		Name:     amountsFlagName,
		Usage:    "amounts of units, one per entry, same order as --accounts",
		Required: true,
	}
	feeFlag = &cli.Uint64Flag{
		Name:     feeFlagName,
		Usage:    "fee value",
		Required: true,
	}
	topicFlag = &cli.StringFlag{
		Name:     topicFlagName,
		Usage:    "event topic, either registry or supply",
		Required: true,
	}
)
