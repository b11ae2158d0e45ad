package main

import (
	"flag"
	"fmt"
	"os"

	"bj-service/internal/config"
	"bj-service/pkg/auth"
)

func main() {
	var (
		configPath string
		subjectID  int64
	)
	flag.StringVar(&configPath, "config", "config.yaml", "path to config file")
	flag.Int64Var(&subjectID, "subject", 1, "auditor subject id")
	flag.Parse()

	config.LoadConfig(configPath)

	token, err := auth.GenerateAuditorToken(subjectID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
