// Package http exposes a vault.Vault as a JSON/REST API on Gin.
//
// Folder routes live under /folders and file routes under /files. Paths
// travel as the "path" query parameter or JSON field and are always
// relative to the vault base. Failures carry a JSON body with the message
// and a stable snake_case kind:
//
//	{"error": "create_folder \"docs\": folder already exists", "kind": "folder_already_exists"}
//
// Status codes follow the error kind:
//   - invalid_path, invalid_format, not_a_folder, not_a_file: 400
//   - folder_already_exists, file_already_exists: 409
//   - folder_not_found, file_not_found: 404
//   - internal: 500, with the cause withheld from the body
package http
