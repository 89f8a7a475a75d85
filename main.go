package main

import "github.com/koga-04/diet-app/cmd/dietapp"

func main() {
	dietapp.Execute()
}
