package authority

// Principal kind labels carried in sessions. Owners of vendor businesses
// hold KindVendor; their employees hold KindVendorStaff and gain
// capabilities only through an assigned role.
const (
	KindVendor      = "vendor"
	KindVendorStaff = "vendor_staff"
	KindCustomer    = "customer"
	KindAdmin       = "admin"
	KindAffiliate   = "affiliate"
)
