package app

import "github.com/ryanpadilha/atlas-brain/internal/config"

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe は管理画面サーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandMigrate はデータベースマイグレーションを実行することを示す。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand はコマンドライン引数からサブコマンドとデプロイメントモードを解析する。
//
//	brain [dev|test|prod]     サーバー起動（省略時はdev）
//	brain migrate [mode]      マイグレーション実行
//	brain healthcheck         ヘルスチェック
//
// サポート外の引数はdevモードのサーバー起動として扱う。
func ParseCommand(args []string) (Command, string) {
	if len(args) == 0 {
		return CommandServe, config.ModeDev
	}

	switch args[0] {
	case "migrate":
		return CommandMigrate, modeArg(args[1:])
	case "healthcheck":
		return CommandHealthcheck, config.ModeDev
	case config.ModeDev, config.ModeTest, config.ModeProd:
		return CommandServe, args[0]
	default:
		return CommandServe, config.ModeDev
	}
}

// modeArg は残りの引数からデプロイメントモードを取り出す。
func modeArg(args []string) string {
	if len(args) == 0 {
		return config.ModeDev
	}
	switch args[0] {
	case config.ModeTest:
		return config.ModeTest
	case config.ModeProd:
		return config.ModeProd
	default:
		return config.ModeDev
	}
}
