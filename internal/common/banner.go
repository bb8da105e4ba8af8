package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner writes the startup banner to w and logs the start.
func PrintBanner(w io.Writer, config *Config, logger *Logger) {
	info := GetVersionInfo()
	serviceURL := fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 64
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		`  ___ _____ ___   ___ _  _____  ___ ___ _  __`,
		` / __|_   _/ _ \ / __| |/ /   \| __/ __| |/ /`,
		` \__ \ | || (_) | (__| ' <| |) | _|\__ \ ' < `,
		` |___/ |_| \___/ \___|_|\_\___/|___|___/_|\_\`,
	}

	fmt.Fprintf(w, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(w, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(w, "\n%s  Quotes, price history & capital gains%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(w, "\n%s\n\n", hr)

	kvPad := 16
	kvLines := [][2]string{
		{"Version", info.Version},
		{"Build", info.Build},
		{"Commit", info.Commit},
		{"Environment", config.Environment},
		{"Service URL", serviceURL},
		{"Quotes", config.Clients.EODHD.BaseURL},
		{"History", config.Clients.AlphaVantage.BaseURL},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(w, "%s  %-*s %s%s\n", textColor, kvPad, kv[0], kv[1], banner.ColorReset)
	}

	fmt.Fprintf(w, "\n%s\n\n", hr)

	logger.Info().
		Str("version", info.Version).
		Str("build", info.Build).
		Str("commit", info.Commit).
		Str("environment", config.Environment).
		Str("service_url", serviceURL).
		Msg("Application started")
}

// PrintShutdownBanner writes the shutdown banner to w.
func PrintShutdownBanner(w io.Writer, logger *Logger) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	hr := lineColor + strings.Repeat("═", 42) + banner.ColorReset

	fmt.Fprintf(w, "\n%s\n", hr)
	fmt.Fprintf(w, "%s  STOCKDESK: SHUTTING DOWN%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(w, "%s\n\n", hr)

	logger.Info().Msg("Application shutting down")
}
