// Package config manages Rustark layout files.
//
// A layout is a JSON file in the configs directory. Its file name without the
// .json suffix is the config ID used when creating sessions. Each file holds:
//   - ten layout rows of ten characters over "-!gGch"
//   - hint texts and crate contents keyed by position
//   - generators that start out found, optional achievements
//   - a welcome message
//
// Shipped layouts:
//   - classic: the original map with three dead generators, a hint and a crate
//   - outage: a larger scavenging map with two crates and two hints
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	layout, err := manager.LoadConfig("outage")
//	defaultLayout := manager.GetDefault()
//	infos, err := manager.ListConfigs()
//
// Loaded layouts are validated with engine.ValidateGameConfig and cached.
// The default is classic.json, else the first valid file, else the built-in
// engine.DefaultConfig.
package config
