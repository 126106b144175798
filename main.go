package main

import (
	"github.com/lehigh-university-libraries/bibaffil/cmd"
)

func main() {
	cmd.Execute()
}
