package warehouse

import "database/sql"

// Shared scan loops for the recurring row shapes. Category-like columns scan
// through sql.NullString because warehouse annotations are occasionally
// missing; a NULL group then labels as the empty string instead of failing
// the whole endpoint.

func scanCategoryCounts(rows *sql.Rows) ([]CategoryCount, error) {
	var out []CategoryCount
	for rows.Next() {
		var category sql.NullString
		var row CategoryCount
		if err := rows.Scan(&category, &row.Count); err != nil {
			return nil, err
		}
		row.Category = category.String
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanDateCategoryCounts(rows *sql.Rows) ([]DateCategoryCount, error) {
	var out []DateCategoryCount
	for rows.Next() {
		var category sql.NullString
		var row DateCategoryCount
		if err := rows.Scan(&row.Date, &category, &row.Count); err != nil {
			return nil, err
		}
		row.Category = category.String
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanGroupedCounts(rows *sql.Rows) ([]GroupedCount, error) {
	var out []GroupedCount
	for rows.Next() {
		var label, bucket sql.NullString
		var row GroupedCount
		if err := rows.Scan(&label, &bucket, &row.Count); err != nil {
			return nil, err
		}
		row.Label = label.String
		row.Bucket = bucket.String
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanWordWeights(rows *sql.Rows) ([]WordWeight, error) {
	var out []WordWeight
	for rows.Next() {
		var word sql.NullString
		var row WordWeight
		if err := rows.Scan(&word, &row.Weight); err != nil {
			return nil, err
		}
		row.Word = word.String
		out = append(out, row)
	}
	return out, rows.Err()
}
