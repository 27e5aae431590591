// Package config provides configuration structures and loaders for swaggercov.
//
// Two kinds of configuration live here:
//   - the tool's own settings (Config), assembled from defaults, an optional
//     .swaggercov.yaml project file, SWAGGERCOV_* environment variables and
//     CLI flags;
//   - the per-API swagger-coverage-config-<api>.json file that is shared with
//     the swagger-coverage-commandline tool and carries the path ignore list.
package config
