// Package all wires every built-in storage backend into the storage factory.
//
// The package exists purely for side effects: importing it (usually as a
// blank import from the CLI wiring layer) runs the init functions of each
// concrete backend, which register their factories with the storage package.
// The following kinds become available at runtime:
//
//   - "postgres" (registry/internal/storage/postgres)
//   - "sqlite"   (registry/internal/storage/sqlite)
//   - "mysql"    (registry/internal/storage/mysql)
//   - "mssql"    (registry/internal/storage/mssql)
package all

import (
	_ "registry/internal/storage/mssql"
	_ "registry/internal/storage/mysql"
	_ "registry/internal/storage/postgres"
	_ "registry/internal/storage/sqlite"
)
