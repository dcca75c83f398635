// Command mediaprobe analyzes media files from the command line. It is
// a thin composition root over the analysis library, mainly useful for
// inspecting what the scanner layer would see for a given file.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	mediaprobe "github.com/bbidwell85/Totality-sub002"
	"github.com/bbidwell85/Totality-sub002/pkg/logger"
)

const version = "0.3.0"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mediaprobe",
		Short:         "Extract normalized technical metadata from media files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	bindGlobalFlags(root.PersistentFlags())
	initConfig(root.PersistentFlags())

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func bindGlobalFlags(fs *pflag.FlagSet) {
	fs.String("ffprobe", "", "Path to the ffprobe binary (default: $PATH lookup)")
	fs.IntP("workers", "w", 0, "Max concurrent probe processes (default: CPU count - 1)")
	fs.BoolP("verbose", "v", false, "Enable debug logging")
}

// initConfig wires viper: MEDIAPROBE_* env vars, an optional config
// file in the working directory, and flag bindings.
func initConfig(fs *pflag.FlagSet) {
	viper.SetConfigName("mediaprobe")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("MEDIAPROBE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	_ = viper.BindPFlag("ffprobe", fs.Lookup("ffprobe"))
	_ = viper.BindPFlag("workers", fs.Lookup("workers"))
	_ = viper.BindPFlag("verbose", fs.Lookup("verbose"))

	_ = viper.ReadInConfig() // ignore not found
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Analyze one or more media files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAnalyze,
	}
	bindAnalyzeFlags(cmd.Flags())
	return cmd
}

func bindAnalyzeFlags(fs *pflag.FlagSet) {
	fs.Bool("json", false, "Emit one JSON document per file instead of a summary")
	fs.Int("batch", 0, "Process in sequential chunks of this size instead of all at once")
	_ = viper.BindPFlag("json", fs.Lookup("json"))
	_ = viper.BindPFlag("batch", fs.Lookup("batch"))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mediaprobe version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mediaprobe %s\n", version)
		},
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.Nop()
	if viper.GetBool("verbose") {
		var err error
		log, err = logger.New(true)
		if err != nil {
			return err
		}
	}

	analyzer, err := mediaprobe.New(mediaprobe.Config{
		ProberPath: viper.GetString("ffprobe"),
		MaxWorkers: viper.GetInt("workers"),
		Logger:     log,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = analyzer.Shutdown(context.Background())
		analyzer.Close()
	}()

	log.Info("analyzing files",
		zap.Int("count", len(args)),
		zap.Int("max_workers", analyzer.Stats().MaxWorkers),
	)

	var results map[string]*mediaprobe.FileAnalysisResult
	onProgress := func(completed, total int, basename string) {
		fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", completed, total, basename)
	}

	if batch := viper.GetInt("batch"); batch > 0 {
		results, err = analyzer.AnalyzeBatch(ctx, args, batch)
	} else {
		results, err = analyzer.AnalyzeFiles(ctx, args, onProgress)
	}
	if err != nil {
		return err
	}

	failed := 0
	asJSON := viper.GetBool("json")
	r := newRenderer(os.Stdout)
	for _, path := range args {
		res, ok := results[path]
		if !ok {
			continue
		}
		if !res.Success {
			failed++
		}
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			if err := enc.Encode(res); err != nil {
				return err
			}
			continue
		}
		r.renderResult(res)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed analysis", failed, len(args))
	}
	return nil
}
