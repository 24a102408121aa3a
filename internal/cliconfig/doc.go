// Package cliconfig loads the YAML file read by the gosession command and maps
// it onto the engine, gateway, route table and dev backend settings.
//
// Every field is optional. Unset fields keep the library defaults, so an empty
// file is valid.
package cliconfig
