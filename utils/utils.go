package utils

import (
	"math/rand"
	"time"

	"github.com/Luismorlan/eventmux/utils/dotenv"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

var random = rand.New(rand.NewSource(time.Now().UnixNano()))

// RandomAlphabetString returns a random lower case string of length n.
func RandomAlphabetString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[random.Intn(len(alphabet))]
	}
	return string(b)
}

func IsProdEnv() bool {
	return dotenv.CurrentEnv() == dotenv.ProdEnv
}
