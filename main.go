package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/techinsight/blog/config"
	"github.com/techinsight/blog/database"
	"github.com/techinsight/blog/logger"
	"github.com/techinsight/blog/web"
	"github.com/techinsight/blog/web/service"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func initLogger() {
	level, err := logger.LevelOf(config.GetLogLevel())
	if err != nil {
		log.Fatal(err)
	}
	logger.InitLogger(level)
}

func initDB() error {
	return database.InitDB(config.GetDataFolderPath())
}

func runWebServer() {
	log.Printf("Starting %v %v", config.GetName(), config.GetVersion())

	initLogger()
	if err := initDB(); err != nil {
		log.Fatalf("Error initializing data folder: %v", err)
	}

	server := web.NewServer()
	if err := server.Start(); err != nil {
		log.Fatalf("Error starting web server: %v", err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("Received SIGHUP signal. Restarting server...")
			if err := server.Stop(); err != nil {
				logger.Debug("Error stopping web server:", err)
			}
			server = web.NewServer()
			if err := server.Start(); err != nil {
				log.Fatalf("Error restarting web server: %v", err)
				return
			}
			log.Println("Web server restarted successfully.")
		default:
			logger.Info("Shutting down server...")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			logger.CloseLogger()
			return
		}
	}
}

func migrateDb() {
	if err := initDB(); err != nil {
		log.Fatal(err)
	}
	version, err := database.GetStore().SchemaVersion()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Migration done! schema version:", version)
}

func resetAdmin(username, password string) {
	if err := initDB(); err != nil {
		fmt.Println(err)
		return
	}
	userService := service.UserService{}
	if err := userService.ResetAdmin(username, password); err != nil {
		fmt.Println("reset admin failed:", err)
		return
	}
	fmt.Println("reset admin success")
}

func showSetting() {
	if err := initDB(); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("current settings as follows:")
	fmt.Println("data folder:", config.GetDataFolderPath())
	fmt.Println("listen:", config.GetListen())
	fmt.Println("port:", config.GetPort())
	fmt.Println("time location:", config.GetTimeLocation())

	userService := service.UserService{}
	admin, err := userService.GetFirstAdmin()
	if err != nil {
		fmt.Println("get admin info failed, error info:", err)
		return
	}
	fmt.Println("admin username:", admin.Username)
	fmt.Println("admin email:", admin.Email)
}

func backupData(dest string) {
	if err := initDB(); err != nil {
		fmt.Println(err)
		return
	}
	if dest == "" {
		dest = filepath.Join(config.GetBackupFolderPath(), time.Now().Format("2006-01-02-150405"))
	}
	if err := database.Backup(dest); err != nil {
		fmt.Println("backup failed:", err)
		return
	}
	fmt.Println("backup written to", dest)
}

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	var rootCmd = &cobra.Command{
		Use: config.GetName(),
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the data folder to the latest schema",
		Run: func(cmd *cobra.Command, args []string) {
			migrateDb()
		},
	}

	var backupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Copy every data document into a backup folder",
		Run: func(cmd *cobra.Command, args []string) {
			dest, _ := cmd.Flags().GetString("dest")
			backupData(dest)
		},
	}
	backupCmd.Flags().String("dest", "", "backup folder, defaults to a timestamped folder under the backup path")

	var settingCmd = &cobra.Command{
		Use:   "setting",
		Short: "Show or change settings",
	}

	var showCmd = &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Run: func(cmd *cobra.Command, args []string) {
			showSetting()
		},
	}

	var resetAdminCmd = &cobra.Command{
		Use:   "reset-admin",
		Short: "Reset the administrator credentials",
		Run: func(cmd *cobra.Command, args []string) {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			resetAdmin(username, password)
		},
	}
	resetAdminCmd.Flags().String("username", "admin", "set admin username")
	resetAdminCmd.Flags().String("password", "", "set admin password")
	_ = resetAdminCmd.MarkFlagRequired("password")

	settingCmd.AddCommand(showCmd, resetAdminCmd)

	rootCmd.AddCommand(runCmd, migrateCmd, backupCmd, settingCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
