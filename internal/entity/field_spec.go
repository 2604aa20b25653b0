package entity

import "fmt"

// SpecField pairs an output column with the data-spec marker that holds its value on the source site.
// An empty LookupKey means the site has no equivalent and the column is always empty.
type SpecField struct {
	Name      string
	LookupKey string
}

// FieldSpec is the ordered column layout of the output table.
type FieldSpec []SpecField

// DefaultFieldSpec returns the canonical phone specification layout.
// A fresh copy is returned on every call so callers can never mutate the shared table.
func DefaultFieldSpec() FieldSpec {
	spec := make(FieldSpec, len(defaultFields))
	copy(spec, defaultFields)
	return spec
}

// Len returns the number of columns.
func (s FieldSpec) Len() int {
	return len(s)
}

// Names returns the column names in output order.
func (s FieldSpec) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// LookupKey returns the marker for the named column.
func (s FieldSpec) LookupKey(name string) (string, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.LookupKey, true
		}
	}
	return "", false
}

// Validate checks that every column has a unique, non-empty name.
func (s FieldSpec) Validate() error {
	seen := make(map[string]int, len(s))
	for i, f := range s {
		if f.Name == "" {
			return fmt.Errorf("field spec: column %d has an empty name", i)
		}
		if prev, ok := seen[f.Name]; ok {
			return fmt.Errorf("field spec: duplicate column %q at %d and %d", f.Name, prev, i)
		}
		seen[f.Name] = i
	}
	return nil
}

var defaultFields = []SpecField{
	{"Name", "modelname"},
	{"photo_link", ""},
	{"mini_photo", ""},
	{"description", ""},
	{"brand", ""},
	{"barcode", ""},
	{"tags", ""},
	{"video_link", ""},
	{"use_first_video_as_cover", ""},
	{"instructions", ""},
	{"manufacturing_country", ""},
	{"manufacturer_articul", ""},
	{"manufacturer", ""},
	{"weight_with_pkg", ""},
	{"dimensions_with_pkg", ""},
	{"more_than_one_place", ""},
	{"price", ""},
	{"price_before_discount", ""},
	{"cost_for_seller", ""},
	{"additional_expenses", ""},
	{"currency", ""},
	{"valid_until", ""},
	{"valid_until_comment", ""},
	{"service_period", ""},
	{"service_period_comment", ""},
	{"warranty_period", ""},
	{"warranty_period_comment", ""},
	{"document_number", ""},
	{"tn_ved_code", ""},
	{"type_of_used_condition", ""},
	{"appearance", ""},
	{"appearance_description", ""},
	{"SKU_on_market", ""},
	{"in_archive", ""},
	{"type", ""},
	{"operating_system", "os"},
	{"model_series", "modelname"},
	{"body_type", ""},
	{"screen_diagonal", "displaysize-hl"},
	{"memory_card_slot", "memoryslot"},
	{"wireless_interfaces", ""},
	{"RAM_size", "ramsize-hl"},
	{"physical_memory", "internalmemory"},
	{"cpu", "chipset"},
	{"main_camera_resolution_range", ""},
	{"connectivity_type", "nettech"},
	{"screen_matrix_type", "displaytype"},
	{"screen_resolution", "displayresolution"},
	{"screen_refresh_frequency", ""},
	{"color_for_filter", "colors"},
	{"SIM_count", ""},
	{"os_version_on_start", "os"},
	{"camera_functions", ""},
	{"main_cameras_count", ""},
	{"main_camera_resolution", "cam1modules"},
	{"main_cameras_type", ""},
	{"main_camera_specs", ""},
	{"main_camera_specs_2", ""},
	{"main_camera_specs_3", ""},
	{"main_camera_specs_4", ""},
	{"main_camera_specs_5", ""},
	{"max_video_resolution", "cam1video"},
	{"video_main_camera", ""},
	{"front_camera_resolution", "cam2modules"},
	{"wifi_standard", "wlan"},
	{"bluetooth_version", "bluetooth"},
	{"location_system", ""},
	{"body_material", ""},
	{"protection_type", "bodyother"},
	{"authentication_type", "sensors"},
	{"unusual_specs", ""},
	{"earphones_port", ""},
	{"weight_gr", "weight"},
	{"height_mm", "dimensions"},
	{"width_mm", ""},
	{"length_mm", ""},
	{"screen_resolution_format", "displayresolution"},
	{"screen_ppi", ""},
	{"unusual_screen_specs", ""},
	{"additional_screen_resolution", ""},
	{"additional_screen_diagonal", ""},
	{"battery_mah", "batdescription1"},
	{"battery_life_video", ""},
	{"battery_life_idle", ""},
	{"charging_time", ""},
	{"charger_functions", ""},
	{"fast_charge_standard", ""},
	{"charger_port_type", "usb"},
	{"battery_mount", ""},
	{"full_package_contents", ""},
	{"additional_info", ""},
	{"announcement_date", "year"},
	{"selling_start_date", "released-hl"},
	{"selling_start_year", ""},
	{"color_name_from_manufacturer", ""},
	{"version", ""},
	{"memory_configuration", ""},
	{"NFC", "nfc"},
	{"cpu_specs", "cpu"},
	{"subscription_type", ""},
	{"pdp_last_edit_date", ""},
	{"additional_specs", ""},
}
