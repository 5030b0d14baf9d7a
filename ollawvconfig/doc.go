// Package ollawvconfig loads and validates the configuration table from
// spec.md §6: search bounds, fold counts, bias/epoch/margin/cache_size
// knobs, and the input dataset path.
//
// Grounded on CWBudde-go-pocket-tts's internal/config package: a functional
// defaults struct, pflag flag registration, and a viper overlay of config
// file and environment variables on top of flags.
package ollawvconfig
