package utils

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// AskConfirmation asks for a yes/no answer on stdin. force short-circuits
// to yes so scripted runs never block.
func AskConfirmation(message string, force bool) bool {
	if force {
		return true
	}
	fmt.Printf("%s (y/N): ", message)

	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	response := strings.ToLower(strings.TrimSpace(input))
	return response == "y" || response == "yes"
}
