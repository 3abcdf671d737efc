package database

import (
	"database/sql"
	"fmt"
	"log"
)

// createMaterialsSchema 创建物料目录表结构
func createMaterialsSchema(db *sql.DB) error {
	log.Println("初始化物料目录表结构...")

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS materials (
			material_code TEXT PRIMARY KEY,
			material_name TEXT NOT NULL,
			specification TEXT,
			unit TEXT NOT NULL DEFAULT '个',
			factory_price REAL,
			category_level1 TEXT,
			category_level2 TEXT,
			attributes TEXT,
			status INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_materials_name ON materials(material_name)`,
		`CREATE INDEX IF NOT EXISTS idx_materials_name_lower ON materials(lower(material_name))`,
		`CREATE INDEX IF NOT EXISTS idx_materials_status ON materials(status)`,
		`CREATE INDEX IF NOT EXISTS idx_materials_category ON materials(category_level1)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run materials migration: %w", err)
		}
	}

	return nil
}
