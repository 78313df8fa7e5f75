// Package retina 適応型視覚センサーの管理を担う
//
// # 責務
// - カメラデバイスのライフサイクル管理（オープン・読み取り・解放）
// - 時間ゲート付きのフレームキャプチャと観測スロットへの公開
// - 感覚信号（輝度・動き）の算出
// - アクセス状況に応じたキャプチャ間隔の自動調整（休眠制御）
// - デバイス障害時のインデックスフェイルオーバー
//
// # 使い分け
// このパッケージは以下の場合に使用する：
// - 「今カメラに何が映っているか」を要求時に即座に返したい
// - キャプチャをリクエストと切り離してバックグラウンドで行いたい
// - カメラの抜き差しや再列挙に運用介入なしで耐えたい
//
// # 仕様
// - AdaptiveRetina: センサーマネージャー（視覚野ループを1本所有）
// - 観測スロット: 最新1件のみ保持（上書き方式、履歴なし）
// - キャプチャループ: 協調的な停止フラグで制御、エラーでは自己終了しない
// - フェイルオーバー: インデックス0..Maxを昇順走査、成功値を永続化
// - 全ての障害は観測ステータス（BLIND/DARKNESS）として吸収される
// - Thread-safe な操作をサポート
//
// # 前提要件
//   - OpenCV 4.x: gocv経由のカメラキャプチャに使用
//     Ubuntu/Debian: sudo apt install libopencv-dev
//     詳細は https://gocv.io/getting-started/ を参照
//   - videoグループへの参加: デバイスアクセス権限
//     sudo usermod -a -G video $USER
package retina
