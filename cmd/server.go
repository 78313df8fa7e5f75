// Package main はOpticNerveサーバーコマンドの実装です
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"opticnerve/internal/config"
	"opticnerve/internal/retina"
	"opticnerve/internal/server"
)

func main() {
	// コマンドラインオプション
	var (
		host   = flag.String("host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
		port   = flag.Int("port", 0, "サーバーのポート (デフォルト: 8080)")
		device = flag.Int("device", -1, "カメラデバイス番号 (デフォルト: 0)")
		help   = flag.Bool("help", false, "ヘルプを表示")
	)

	flag.Parse()

	// ヘルプ表示
	if *help {
		fmt.Println("OpticNerve")
		fmt.Println()
		fmt.Println("使用方法:")
		fmt.Println("  server [オプション]")
		fmt.Println()
		fmt.Println("オプション:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// コマンドラインオプションで設定を上書き
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *device >= 0 {
		cfg.Retina.DeviceIndex = *device
	}

	// コンテキストを作成
	ctx := context.Background()

	// センサーを作成して起動
	opener := retina.NewGoCVOpener(cfg.Retina.Width, cfg.Retina.Height)
	sensor := retina.NewAdaptiveRetina(opener, cfg.Retina)
	if err := sensor.Start(ctx); err != nil {
		log.Fatalf("センサーの起動に失敗しました: %v", err)
	}
	defer func() {
		if err := sensor.Stop(ctx); err != nil {
			log.Printf("センサーの停止に失敗しました: %v", err)
		}
	}()

	// サーバーを作成して起動
	srv := server.New(cfg, sensor)
	log.Printf("OpticNerve サーバーを起動します: %s", cfg.ServerAddress())
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
