package file

const (
	InsertFile = `
		WITH inserted AS (
			INSERT INTO files (user_id, original_name, stored_name, media_type, size_bytes)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, uuid, user_id, original_name, stored_name, media_type, size_bytes, created_at
		)
		SELECT i.id, i.uuid, i.user_id, u.uuid, i.original_name, i.stored_name, i.media_type, i.size_bytes, i.created_at
		FROM inserted i
		JOIN users u ON u.id = i.user_id
	`
	SelectFilesByOwner = `
		SELECT f.id, f.uuid, f.user_id, u.uuid, f.original_name, f.stored_name, f.media_type, f.size_bytes, f.created_at
		FROM files f
		JOIN users u ON u.id = f.user_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, f.id DESC
	`
	SelectFileByUUID = `
		SELECT f.id, f.uuid, f.user_id, u.uuid, f.original_name, f.stored_name, f.media_type, f.size_bytes, f.created_at
		FROM files f
		JOIN users u ON u.id = f.user_id
		WHERE f.uuid = $1::uuid
	`
	DeleteFileOwned = `DELETE FROM files WHERE uuid = $1::uuid AND user_id = $2`
	DeleteFileAny   = `DELETE FROM files WHERE uuid = $1::uuid`
)
