package core

import (
	"fmt"
	"os"
)

var IsLambda = os.Getenv("AWS_LAMBDA_RUNTIME_API") != ""

func Die(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if IsLambda {
		panic(msg)
	} else {
		fmt.Fprintln(os.Stderr, "error: "+msg)
		os.Exit(1)
	}
}

// SlackToken reads the bot token from the environment.
func SlackToken() (string, error) {
	token := os.Getenv("SLACK_BOT_TOKEN")
	if token == "" {
		return "", fmt.Errorf("missing env SLACK_BOT_TOKEN")
	}
	return token, nil
}
