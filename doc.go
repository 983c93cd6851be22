// Package investec wires the Investec private banking tools into an MCP server.
//
// Options are read from flags, the environment (optionally seeded from a .env file) and an
// optional YAML file. Run parses them and serves the tools over stdio:
//
//	if err := investec.Run(os.Args[1:]); err != nil {
//		log.Fatal(err)
//	}
package investec
