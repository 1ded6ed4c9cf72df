// Package config manages the user configuration file for carelog.
//
// The configuration lives in the OS-appropriate user config directory
// (e.g., ~/.config/carelog/config.yaml on Linux) and stores client-side
// preferences only: the base URL of the records API, the external camera
// capture command, and the mDNS discovery timeout. No record data and no
// credentials are ever written to this file.
//
// Loading is lazy and cached; Save performs an atomic write via a
// temporary file and rename.
package config
