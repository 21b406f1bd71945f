// kb is the kodebase workflow CLI: event-sourced status tracking for
// hierarchical work artifacts stored as YAML files under .kodebase/.
package main

func main() {
	Execute()
}
