// Package main is the entry point for the clubstats CLI, which imports club
// match stat sheets and builds chart series from them.
package main

import "github.com/pable/clubstats/cmd"

func main() {
	cmd.Execute()
}
