// Hermes is a motion-capture bridge: it receives live tracking values
// over UDP, transforms them through user-defined rules, and drives a
// desktop avatar endpoint over websocket.
//
// Usage:
//
//	# Start the bridge with default configuration
//	hermes run
//
//	# Start with a custom configuration file
//	hermes run --config /path/to/config.yaml
//
//	# Check a rule file without starting the bridge
//	hermes rules validate --file rules.json
//
//	# Show recent synchronization history
//	hermes history
//
//	# Show version information
//	hermes version
package main

func main() {
	Execute()
}
