package main

import (
	"context"
	"log"

	"opticnerve/internal/config"
	"opticnerve/internal/retina"
	"opticnerve/internal/server"
)

func main() {
	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
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
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
