package catalog

// identifier describes a shared path parameter naming an upstream resource.
type identifier struct {
	description string
	format      string
	listedBy    string
}

var identifiers = map[string]identifier{
	"connection_id": {
		description: "Connection identifier. Get from list_connections.",
		format:      "conn_xxxxxxxx",
		listedBy:    "list_connections",
	},
	"destination_id": {
		description: "Destination identifier. Get from list_destinations.",
		format:      "dest_xxxxxxxx",
		listedBy:    "list_destinations",
	},
	"group_id": {
		description: "Group identifier. Get from list_groups.",
		format:      "group_xxxxxxxx",
		listedBy:    "list_groups",
	},
	"user_id": {
		description: "User identifier. Get from list_users.",
		listedBy:    "list_users",
	},
	"team_id": {
		description: "Team identifier. Get from list_teams.",
		listedBy:    "list_teams",
	},
	"webhook_id": {
		description: "Webhook identifier. Get from list_webhooks.",
		listedBy:    "list_webhooks",
	},
	"transformation_id": {
		description: "Transformation identifier. Get from list_transformations.",
		listedBy:    "list_transformations",
	},
	"project_id": {
		description: "Transformation project identifier. Get from list_transformation_projects.",
		listedBy:    "list_transformation_projects",
	},
	"key_id": {
		description: "System key identifier. Get from list_system_keys.",
		listedBy:    "list_system_keys",
	},
	"schema_name": {
		description: "Database schema name. Get from get_connection_schema_config.",
		listedBy:    "get_connection_schema_config",
	},
	"table_name": {
		description: "Database table name. Get from get_connection_schema_config.",
		listedBy:    "get_connection_schema_config",
	},
	"column_name": {
		description: "Database column name. Get from get_connection_column_config.",
		listedBy:    "get_connection_column_config",
	},
}

// pathID returns the required path parameter for a shared identifier.
// Unknown names produce a parameter without description, which Validate
// rejects.
func pathID(name string) Param {
	id := identifiers[name]
	return Param{
		Name:        name,
		In:          InPath,
		Type:        String,
		Required:    true,
		Description: id.description,
		ListedBy:    id.listedBy,
		Format:      id.format,
	}
}

// queryID is pathID for identifiers used as query filters.
func queryID(name, description string) Param {
	p := pathID(name)
	p.In = InQuery
	p.Required = false
	p.Description = description
	return p
}

var (
	limitParam = Param{
		Name:        "limit",
		In:          InQuery,
		Type:        Integer,
		Description: "Page size (1-1000). Defaults to the server page size.",
		Bounded:     true,
		Minimum:     1,
		Maximum:     1000,
	}
	cursorParam = Param{
		Name:        "cursor",
		In:          InQuery,
		Type:        String,
		Description: "Cursor from a previous next_cursor. When set, only that single page is returned instead of every page.",
	}
)

func queryParam(name string, typ Type, description string) Param {
	return Param{Name: name, In: InQuery, Type: typ, Description: description}
}

func bodyParam(name string, typ Type, description string) Param {
	return Param{Name: name, In: InBody, Type: typ, Description: description}
}

func requiredBody(name string, typ Type, description string) Param {
	p := bodyParam(name, typ, description)
	p.Required = true
	return p
}

func enumBody(name, description string, values ...string) Param {
	p := bodyParam(name, Enum, description)
	p.Enum = values
	return p
}

func inlineBody(name, description string) Param {
	p := requiredBody(name, Object, description)
	p.Inline = true
	return p
}

// Body parameters shared by connection and destination setup.
var (
	trustCertificates = bodyParam("trust_certificates", Boolean, "Automatically trust the certificates presented by the source or destination.")
	trustFingerprints = bodyParam("trust_fingerprints", Boolean, "Automatically trust the SSH fingerprints presented by the source or destination.")
	runSetupTests     = bodyParam("run_setup_tests", Boolean, "Run setup tests after the change is applied.")
	networkingMethod  = enumBody("networking_method", "How Fivetran reaches the system.", "Directly", "SshTunnel", "ProxyAgent", "PrivateLink")
	serviceConfig     = bodyParam("config", Object, "Service-specific configuration object.")
)

// list declares a paginated GET operation with limit and cursor query
// parameters appended to params.
func list(name, path, summary string, params ...Param) Operation {
	params = append(params, limitParam, cursorParam)
	return Operation{
		Name:      name,
		Method:    "GET",
		Path:      path,
		Params:    params,
		Paginated: true,
		Summary:   summary,
	}
}

func get(name, path, summary string, params ...Param) Operation {
	return Operation{Name: name, Method: "GET", Path: path, Params: params, Summary: summary}
}

func post(name, path, summary string, params ...Param) Operation {
	return Operation{Name: name, Method: "POST", Path: path, Params: params, Summary: summary}
}

func patch(name, path, summary string, params ...Param) Operation {
	return Operation{Name: name, Method: "PATCH", Path: path, Params: params, Summary: summary}
}

func del(name, path, summary string, params ...Param) Operation {
	return Operation{Name: name, Method: "DELETE", Path: path, Params: params, Summary: summary}
}

// withExample attaches a configuration example to op.
func withExample(op Operation, fields ...Field) Operation {
	op.Example = fields
	return op
}

// withUpdates attaches common update hints to op.
func withUpdates(op Operation, fields ...Field) Operation {
	op.CommonUpdates = fields
	return op
}
