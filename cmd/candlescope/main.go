package main

import (
	"fmt"
	"os"

	"github.com/raykavin/candlescope"
	"github.com/raykavin/candlescope/chart"
	"github.com/raykavin/candlescope/dataset"
	"github.com/raykavin/candlescope/plot"
	"github.com/spf13/cobra"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// Command line flags
var (
	dataFile   string
	themeName  string
	width      int
	height     int
	port       int
	simulate   string
	debug      bool
	outputFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "candlescope",
		Short:   "Candlestick chart renderer with score signals",
		Version: "1.0.0",
	}

	rootCmd.AddCommand(buildServeCmd(), buildRenderCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart locally with live updates",
		RunE:  runServe,
	}

	addCommonFlags(serveCmd)
	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP port")
	serveCmd.Flags().StringVarP(&simulate, "simulate", "s", "", "Append a simulated candle at this interval (e.g. 5s)")
	serveCmd.Flags().BoolVar(&debug, "debug", false, "Disable asset minification")

	return serveCmd
}

func buildRenderCmd() *cobra.Command {
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render the chart once to an SVG file",
		RunE:  runRender,
	}

	addCommonFlags(renderCmd)
	renderCmd.Flags().StringVarP(&outputFile, "output", "o", "chart.svg", "Output SVG path")

	return renderCmd
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&dataFile, "file", "f", "", "CSV input (default: embedded sample dataset)")
	cmd.Flags().StringVarP(&themeName, "theme", "t", "light", "Theme name (light, dark)")
	cmd.Flags().IntVar(&width, "width", 960, "Chart width in pixels")
	cmd.Flags().IntVar(&height, "height", 540, "Chart height in pixels")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := candlescope.DefaultLog

	table, err := loadTable()
	if err != nil {
		return err
	}

	theme, err := chart.ThemeByName(themeName)
	if err != nil {
		return fmt.Errorf("theme %q: %w", themeName, err)
	}

	options := []plot.Option{plot.WithPort(port)}
	if debug {
		options = append(options, plot.WithDebug())
	}

	server, err := plot.NewServer(log, options...)
	if err != nil {
		return err
	}

	view := candlescope.New(log,
		candlescope.WithSurface(server),
		candlescope.WithTheme(theme),
		candlescope.WithSize(width, height),
	)
	server.AttachView(view)

	view.OnData(table)

	if simulate != "" {
		interval, err := str2duration.ParseDuration(simulate)
		if err != nil {
			return fmt.Errorf("invalid simulate interval: %w", err)
		}
		server.StartSimulation(table, interval)
	}

	return server.Start(plot.NewStandardHTTPServer())
}

func runRender(cmd *cobra.Command, args []string) error {
	log := candlescope.DefaultLog

	table, err := loadTable()
	if err != nil {
		return err
	}

	theme, err := chart.ThemeByName(themeName)
	if err != nil {
		return fmt.Errorf("theme %q: %w", themeName, err)
	}

	view := candlescope.New(log,
		candlescope.WithSurface(fileSurface{path: outputFile}),
		candlescope.WithTheme(theme),
		candlescope.WithSize(width, height),
	)

	view.OnData(table)

	log.Infof("wrote %s", outputFile)
	return nil
}

func loadTable() (dataset.Table, error) {
	if dataFile == "" {
		return dataset.Sample(), nil
	}
	return dataset.ReadCSV(dataFile)
}

// fileSurface writes each render to a file, replacing prior contents.
type fileSurface struct {
	path string
}

func (f fileSurface) Replace(svg []byte) error {
	return os.WriteFile(f.path, svg, 0o644)
}
