package parheader

// Kind is the numeric interpretation of a header field value.
type Kind int

const (
	// Int fields are parsed as base-10 integers
	Int Kind = iota

	// Float fields are parsed as decimal floating point numbers
	Float

	// String fields keep the raw text (general info) or raw bytes (image
	// definitions, fixed capacity)
	String
)

// Field describes one entry of a header schema. A field is exactly one of:
//   - a scalar (Shape == nil, StrLen == 0) of the declared Kind
//   - a fixed-shape numeric array (Shape != nil)
//   - a fixed-capacity string (StrLen > 0), image definitions only
type Field struct {
	// Name is the canonical field name used for lookups in GeneralInfo and
	// ImageDefTable
	Name string

	// Key is the literal PAR header key for general-info lines. Empty for
	// image-definition fields, which are positional.
	Key string

	// Kind is the numeric interpretation of scalar and array values
	Kind Kind

	// Shape is the fixed shape of array fields, nil for scalars
	Shape []int

	// StrLen is the byte capacity of fixed-length string fields
	StrLen int
}

// Elems returns the number of whitespace-separated tokens the field consumes
// from an image-definition row.
func (f Field) Elems() int {
	if f.Shape == nil {
		return 1
	}
	n := 1
	for _, d := range f.Shape {
		n *= d
	}
	return n
}

// IsString reports whether the field stores text rather than numbers.
func (f Field) IsString() bool {
	return f.StrLen > 0 || f.Kind == String
}

func scalar(name, key string, kind Kind) Field {
	return Field{Name: name, Key: key, Kind: kind}
}

func array(name, key string, kind Kind, shape ...int) Field {
	return Field{Name: name, Key: key, Kind: kind, Shape: shape}
}

func fixedStr(name string, length int) Field {
	return Field{Name: name, Kind: String, StrLen: length}
}

// GeneralInfoFields is the schema of the "general information" section: the
// dot-prefixed "key : value" lines at the top of a PAR header. Keys are the
// literal key text as exported by the scanner (internal spacing matters, the
// parser only trims the ends).
var GeneralInfoFields = []Field{
	scalar("patient_name", "Patient name", String),
	scalar("exam_name", "Examination name", String),
	scalar("protocol_name", "Protocol name", String),
	scalar("exam_date", "Examination date/time", String),
	scalar("series_type", "Series Type", String),
	scalar("acq_nr", "Acquisition nr", Int),
	scalar("recon_nr", "Reconstruction nr", Int),
	scalar("scan_duration", "Scan Duration [sec]", Float),
	scalar("max_cardiac_phases", "Max. number of cardiac phases", Int),
	scalar("max_echoes", "Max. number of echoes", Int),
	scalar("max_slices", "Max. number of slices/locations", Int),
	scalar("max_dynamics", "Max. number of dynamics", Int),
	scalar("max_mixes", "Max. number of mixes", Int),
	scalar("patient_position", "Patient position", String),
	scalar("prep_direction", "Preparation direction", String),
	scalar("tech", "Technique", String),
	array("scan_resolution", "Scan resolution  (x, y)", Int, 2),
	scalar("scan_mode", "Scan mode", String),
	scalar("repetition_time", "Repetition time [ms]", Float),
	array("fov", "FOV (ap,fh,rl) [mm]", Float, 3),
	scalar("water_fat_shift", "Water Fat shift [pixels]", Float),
	array("angulation", "Angulation midslice(ap,fh,rl)[degr]", Float, 3),
	array("off_center", "Off Centre midslice(ap,fh,rl) [mm]", Float, 3),
	scalar("flow_compensation", "Flow compensation <0=no 1=yes> ?", Int),
	scalar("presaturation", "Presaturation     <0=no 1=yes> ?", Int),
	array("phase_enc_velocity", "Phase encoding velocity [cm/sec]", Float, 3),
	scalar("mtc", "MTC               <0=no 1=yes> ?", Int),
	scalar("spir", "SPIR              <0=no 1=yes> ?", Int),
	scalar("epi_factor", "EPI factor        <0,1=no EPI>", Int),
	scalar("dyn_scan", "Dynamic scan      <0=no 1=yes> ?", Int),
	scalar("diffusion", "Diffusion         <0=no 1=yes> ?", Int),
	scalar("diffusion_echo_time", "Diffusion echo time [ms]", Float),
	scalar("max_diffusion_values", "Max. number of diffusion values", Int),
	scalar("max_gradient_orient", "Max. number of gradient orients", Int),
	scalar("nr_label_types", "Number of label types   <0=no ASL>", Int),
}

// ImageDefFields is the schema of one image-definition row: the bare
// whitespace-separated lines, one per image, at the bottom of a PAR header.
// Tokens are consumed left to right in this declared order.
var ImageDefFields = []Field{
	scalar("slice number", "", Int),
	scalar("echo number", "", Int),
	scalar("dynamic scan number", "", Int),
	scalar("cardiac phase number", "", Int),
	scalar("image_type_mr", "", Int),
	scalar("scanning sequence", "", Int),
	scalar("index in REC file", "", Int),
	scalar("image pixel size", "", Int),
	scalar("scan percentage", "", Int),
	array("recon resolution", "", Int, 2),
	scalar("rescale intercept", "", Float),
	scalar("rescale slope", "", Float),
	scalar("scale slope", "", Float),
	scalar("window center", "", Int),
	scalar("window width", "", Int),
	array("image angulation", "", Float, 3),
	array("image offcentre", "", Float, 3),
	scalar("slice thickness", "", Float),
	scalar("slice gap", "", Float),
	scalar("image_display_orientation", "", Int),
	scalar("slice orientation", "", Int),
	scalar("fmri_status_indication", "", Int),
	scalar("image_type_ed_es", "", Int),
	array("pixel spacing", "", Float, 2),
	scalar("echo_time", "", Float),
	scalar("dyn_scan_begin_time", "", Float),
	scalar("trigger_time", "", Float),
	scalar("diffusion_b_factor", "", Float),
	scalar("number of averages", "", Int),
	scalar("image_flip_angle", "", Float),
	scalar("cardiac frequency", "", Int),
	scalar("minimum RR-interval", "", Int),
	scalar("maximum RR-interval", "", Int),
	scalar("TURBO factor", "", Int),
	scalar("Inversion delay", "", Float),
	scalar("diffusion b value number", "", Int),
	scalar("gradient orientation number", "", Int),
	fixedStr("contrast type", 30),
	fixedStr("diffusion anisotropy type", 30),
	array("diffusion", "", Float, 3),
	scalar("label type", "", Int),
}

var (
	generalInfoByKey = map[string]Field{}
	imageDefByName   = map[string]Field{}
)

func init() {
	for _, f := range GeneralInfoFields {
		generalInfoByKey[f.Key] = f
	}
	for _, f := range ImageDefFields {
		imageDefByName[f.Name] = f
	}
}
