package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/solulab/nft-marketplace/internal/config"
	"github.com/solulab/nft-marketplace/internal/config/di"
	"github.com/solulab/nft-marketplace/internal/elastic_search"
	"github.com/solulab/nft-marketplace/internal/entity"
	"github.com/solulab/nft-marketplace/internal/voucher"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	config.Init("cli")

	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:   "sign-voucher",
				Usage:  "Sign a lazy mint voucher with a private key",
				Action: signVoucher,
				Flags: append(voucherFlags(),
					&cli.StringFlag{Name: "privateKey", Required: true, Usage: "hex encoded signing key"},
				),
			},
			{
				Name:   "recover-voucher",
				Usage:  "Recover the signer of a voucher signature",
				Action: recoverVoucher,
				Flags: append(voucherFlags(),
					&cli.StringFlag{Name: "signature", Required: true, Usage: "hex encoded compact signature"},
				),
			},
			{
				Name:   "install-mappings",
				Usage:  "Install the elasticsearch index mappings",
				Action: installMappings,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		zap.L().With(zap.Error(err)).Fatal("CLI failure")
	}
}

func voucherFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Uint64Flag{Name: "tokenId", Required: true},
		&cli.Uint64Flag{Name: "nftAmount", Required: true},
		&cli.StringFlag{Name: "price", Required: true, Usage: "unit price in wei"},
		&cli.Uint64Flag{Name: "startDate", Required: true},
		&cli.Uint64Flag{Name: "endDate", Required: true},
		&cli.StringFlag{Name: "maker", Required: true},
		&cli.StringFlag{Name: "nftAddress", Required: true},
		&cli.StringFlag{Name: "tokenURI", Required: true},
	}
}

func voucherFromFlags(c *cli.Context) entity.NFTVoucher {
	return entity.NFTVoucher{
		TokenId:    c.Uint64("tokenId"),
		NftAmount:  c.Uint64("nftAmount"),
		Price:      c.String("price"),
		StartDate:  c.Uint64("startDate"),
		EndDate:    c.Uint64("endDate"),
		Maker:      c.String("maker"),
		NftAddress: c.String("nftAddress"),
		TokenURI:   c.String("tokenURI"),
	}
}

func signVoucher(c *cli.Context) error {
	privateKey, err := hex.DecodeString(strings.TrimPrefix(c.String("privateKey"), "0x"))
	if err != nil {
		return err
	}

	sig, err := voucher.Sign(voucherFromFlags(c), config.Get().Marketplace.ChainId, privateKey)
	if err != nil {
		return err
	}

	fmt.Printf("0x%s\n", hex.EncodeToString(sig))

	return nil
}

func recoverVoucher(c *cli.Context) error {
	sig, err := hex.DecodeString(strings.TrimPrefix(c.String("signature"), "0x"))
	if err != nil {
		return err
	}

	signer, err := voucher.NewVerifier(config.Get().Marketplace.ChainId).RecoverSigner(voucherFromFlags(c), sig)
	if err != nil {
		return err
	}

	fmt.Println(signer)

	return nil
}

func installMappings(c *cli.Context) error {
	container, err := di.NewContainer()
	if err != nil {
		return err
	}

	container.Get("elastic").(elastic_search.Index).InstallMappings()

	return nil
}
