// Package server は、視覚センサーへのHTTPアクセスを管理します。
//
// このパッケージは、HTTPサーバーの起動、ルーティング、
// 観測結果の配信と設定変更リクエストの処理を担当します。
//
// 責務:
//   - HTTPサーバーの起動と管理
//   - 最新観測（read_eye）の配信
//   - キャプチャ間隔の変更（configure_eye）の受け付け
//   - 最新フレームの生JPEG配信
//   - グレースフルシャットダウン
//
// 仕様:
//   - ルーティングはgin-gonic/ginを使用
//   - センサーは依存性注入で受け取る（サーバーは所有しない）
//   - 観測のエラー状態はHTTPエラーではなくデータとして返す
package server
