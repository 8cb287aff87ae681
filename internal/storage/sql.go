package storage

import (
	_ "embed"
)

const (
	insertSessionSQL = `
INSERT INTO sessions (start_time,
                      application,
                      config)
VALUES (CURRENT_TIMESTAMP, ?, ?)`

	selectSessionSQL = `
SELECT id,
       start_time,
       application,
       config
FROM sessions
WHERE id = ?`

	selectSessionsSQL = `
SELECT id,
       start_time,
       application,
       config
FROM sessions
ORDER BY start_time`

	insertSweepPointsSQL = `
INSERT INTO sweep_points (session_id,
                          airfoil_name,
                          reynolds,
                          alpha_deg,
                          velocity,
                          cl,
                          cd,
                          cl_over_cd,
                          cm)
VALUES `

	selectSweepPointsSQL = `
SELECT airfoil_name,
       reynolds,
       alpha_deg,
       velocity,
       cl,
       cd,
       cl_over_cd,
       cm
FROM sweep_points
WHERE session_id = ?
ORDER BY id`

	insertSuitableWingSQL = `
INSERT INTO suitable_wings (session_id,
                            airfoil_name,
                            reynolds,
                            velocity,
                            aspect_ratio,
                            chord,
                            wingspan,
                            lift_n,
                            lift_kgs,
                            optimum_angle,
                            optimum_cl,
                            max_cl_over_cd,
                            lift_norm,
                            span_norm,
                            final_score)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectSuitableWingsSQL = `
SELECT airfoil_name,
       reynolds,
       velocity,
       aspect_ratio,
       chord,
       wingspan,
       lift_n,
       lift_kgs,
       optimum_angle,
       optimum_cl,
       max_cl_over_cd,
       lift_norm,
       span_norm,
       final_score
FROM suitable_wings
WHERE session_id = ?
ORDER BY id`

	initIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_sweep_points_session ON sweep_points (session_id, airfoil_name, reynolds);
CREATE INDEX IF NOT EXISTS idx_suitable_wings_session ON suitable_wings (session_id, final_score);`
)

//go:embed schema.sql
var schemaSQL string
