package errs

import "fmt"

type Code string

const (
	AllWithNamedEntity     Code = "ALL_WITH_NAMED_ENTITY"
	ProvideEntityOrAll     Code = "PROVIDE_ENTITY_OR_ALL"
	VersionWithAll         Code = "VERSION_WITH_ALL"
	FeatureNotSupported    Code = "FEATURE_NOT_SUPPORTED"
	UnknownEntity          Code = "UNKNOWN_ENTITY"
	MissingSupervisorToken Code = "MISSING_SUPERVISOR_TOKEN"
	DuplicateFileEntry     Code = "DUPLICATE_FILE_ENTRY"
)

var messages = map[Code]string{
	AllWithNamedEntity: `Invalid flag combination: cannot use --all with named entities

Usage:
  - install every pending update:
      hassglue install --all
  - install only specific updates:
      hassglue install %[1]s`,

	ProvideEntityOrAll: `Missing targets: provide update entity ids or use --all

Examples:
  hassglue install update.home_assistant_core_update
  hassglue install --all

Run "hassglue updates list" to see the available ids.`,

	VersionWithAll: `Invalid flag combination: --version targets a single entity

Usage:
  hassglue install update.home_assistant_core_update --version 2022.5.0`,

	FeatureNotSupported: `%[1]s does not support %[2]s; the flag will be ignored by the Supervisor`,

	UnknownEntity: `Unknown update entity %[1]q

Run "hassglue updates list" to see the available ids.`,

	MissingSupervisorToken: `No Supervisor token configured

Set it in one of:
  - supervisor.token in %[1]s
  - SUPERVISOR_TOKEN in the environment or a .env file`,

	DuplicateFileEntry: `%[1]s is already monitored (entry %[2]s)`,
}

func Msg(code Code, a ...any) string {
	msg := messages[code]
	if msg == "" {
		msg = string(code)
	}
	return fmt.Sprintf(msg, a...)
}
