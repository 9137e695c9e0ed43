package warehouse

import "context"

// CropOptions lists crops that actually appear in conversation entities,
// excluding the catch-all placeholder rows.
func (c *Conn) CropOptions(ctx context.Context) ([]CropOption, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT DISTINCT dc.crop_code, dc.crop_name, dc.crop_type
		FROM dim_crops dc
		JOIN fact_conversation_entities fce ON dc.crop_code = fce.entity_code
		WHERE fce.entity_type = 'crop'
		AND dc.crop_name != '_OTHERS (PLEASE SPECIFY)'
		AND dc.crop_name != 'No Crop'
		ORDER BY dc.crop_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CropOption
	for rows.Next() {
		var row CropOption
		if err := rows.Scan(&row.CropCode, &row.CropName, &row.CropType); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CropTypeOptions lists the distinct crop types, excluding blanks.
func (c *Conn) CropTypeOptions(ctx context.Context) ([]string, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT DISTINCT crop_type
		FROM dim_crops
		WHERE crop_type IS NOT NULL
		AND crop_type != '(blank)'
		AND crop_type != 'No Crop'
		ORDER BY crop_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
