//go:build js && wasm

package main

import "github.com/Its-donkey/apex/internal/ui/wasm"

func main() {
	wasm.RunApp()
}
