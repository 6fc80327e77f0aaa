package catalog

// operations returns the built-in Fivetran REST API operations, grouped by
// resource.
func operations() []Operation {
	return []Operation{
		// Account
		get("get_account_info", "/v1/account/info",
			"Get account information including name, region, and subscription details."),

		// Connections
		list("list_connections", "/v1/connections",
			"List all data source connections with status and configuration details.",
			queryID("group_id", "Only return connections in this group."),
			queryParam("schema", String, "Only return the connection with this destination schema name."),
		),
		get("get_connection_details", "/v1/connections/{connection_id}",
			"Get detailed information about a specific connection including status, configuration, and sync history.",
			pathID("connection_id"),
		),
		withExample(post("create_connection", "/v1/connections",
			"Create a new data source connection with specified configuration.",
			requiredBody("service", String, "Connector type, for example postgres or salesforce. See list_connector_metadata."),
			requiredBody("group_id", String, "Group (destination) the connection loads into."),
			serviceConfig,
			bodyParam("auth", Object, "Service-specific authorization object."),
			bodyParam("paused", Boolean, "Create the connection paused."),
			bodyParam("pause_after_trial", Boolean, "Pause the connection when its free trial ends."),
			bodyParam("sync_frequency", Integer, "Minutes between syncs (5, 15, 30, 60, 120, 180, 360, 480, 720, 1440)."),
			bodyParam("daily_sync_time", String, "Time of day for daily syncs (HH:MM)."),
			enumBody("schedule_type", "Whether syncs are scheduled by Fivetran or triggered manually.", "auto", "manual"),
			trustCertificates,
			trustFingerprints,
			runSetupTests,
			networkingMethod,
		),
			Field{"service", "Connector type (postgres, salesforce, etc.)"},
			Field{"group_id", "Target group for organization"},
			Field{"config", "Service-specific connection settings including the destination schema"},
		),
		withUpdates(patch("modify_connection", "/v1/connections/{connection_id}",
			"Update connection settings like sync frequency, pause status, or configuration.",
			pathID("connection_id"),
			serviceConfig,
			bodyParam("auth", Object, "Service-specific authorization object."),
			bodyParam("paused", Boolean, "Pause (true) or resume (false) the connection."),
			bodyParam("pause_after_trial", Boolean, "Pause the connection when its free trial ends."),
			bodyParam("sync_frequency", Integer, "Minutes between syncs."),
			bodyParam("daily_sync_time", String, "Time of day for daily syncs (HH:MM)."),
			enumBody("schedule_type", "Whether syncs are scheduled by Fivetran or triggered manually.", "auto", "manual"),
			bodyParam("is_historical_sync", Boolean, "Request a historical re-sync on the next run."),
			trustCertificates,
			trustFingerprints,
			runSetupTests,
			networkingMethod,
		),
			Field{"sync_frequency", "Minutes between syncs (60, 360, 1440)"},
			Field{"paused", "Boolean to pause/resume"},
			Field{"daily_sync_time", "Time for daily syncs (HH:MM format)"},
		),
		del("delete_connection", "/v1/connections/{connection_id}",
			"Permanently delete a connection and all associated data.",
			pathID("connection_id"),
		),
		get("get_connection_state", "/v1/connections/{connection_id}/state",
			"Get detailed sync state including schema-level status and sync progress.",
			pathID("connection_id"),
		),
		patch("modify_connection_state", "/v1/connections/{connection_id}/state",
			"Update connection sync state or cursor position.",
			pathID("connection_id"),
			requiredBody("state", Object, "Connector-specific state object."),
		),
		post("sync_connection", "/v1/connections/{connection_id}/sync",
			"Manually trigger data synchronization for a connection.",
			pathID("connection_id"),
			bodyParam("force", Boolean, "Stop a sync already in progress and start a new one."),
		),
		post("resync_connection", "/v1/connections/{connection_id}/resync",
			"Trigger full historical re-sync of all data (expensive operation).",
			pathID("connection_id"),
			bodyParam("scope", Object, "Map of schema name to table names to limit the re-sync."),
		),
		withExample(post("resync_tables", "/v1/connections/{connection_id}/schemas/tables/resync",
			"Re-sync specific tables instead of entire connection (more efficient).",
			pathID("connection_id"),
			inlineBody("tables", "Map of schema name to the list of table names to re-sync."),
		),
			Field{"tables", `{"public": ["orders", "customers"]}`},
		),
		post("run_connection_setup_tests", "/v1/connections/{connection_id}/test",
			"Run diagnostic tests to validate connection setup and credentials.",
			pathID("connection_id"),
			trustCertificates,
			trustFingerprints,
		),
		get("get_connection_schema_config", "/v1/connections/{connection_id}/schemas",
			"View which schemas and tables are enabled for syncing.",
			pathID("connection_id"),
		),
		post("reload_connection_schema_config", "/v1/connections/{connection_id}/schemas/reload",
			"Reload the source schema so newly added schemas and tables become visible.",
			pathID("connection_id"),
			enumBody("exclude_mode", "How newly discovered objects are handled.", "PRESERVE", "EXCLUDE"),
		),
		patch("modify_connection_schema_config", "/v1/connections/{connection_id}/schemas",
			"Change schema change handling or enable and disable whole schemas.",
			pathID("connection_id"),
			enumBody("schema_change_handling", "Policy for new schemas, tables and columns.", "ALLOW_ALL", "ALLOW_COLUMNS", "BLOCK_ALL"),
			bodyParam("schemas", Object, "Map of schema name to schema settings."),
		),
		patch("modify_connection_database_schema_config", "/v1/connections/{connection_id}/schemas/{schema_name}",
			"Enable or disable a single schema and its tables.",
			pathID("connection_id"),
			pathID("schema_name"),
			bodyParam("enabled", Boolean, "Whether the schema is synced."),
			bodyParam("tables", Object, "Map of table name to table settings."),
		),
		patch("modify_connection_table_config", "/v1/connections/{connection_id}/schemas/{schema_name}/tables/{table_name}",
			"Enable or disable syncing for specific tables to control data flow and costs.",
			pathID("connection_id"),
			pathID("schema_name"),
			pathID("table_name"),
			bodyParam("enabled", Boolean, "Whether the table is synced."),
			enumBody("sync_mode", "How deleted and changed rows are written.", "SOFT_DELETE", "HISTORY", "LIVE"),
			bodyParam("columns", Object, "Map of column name to column settings."),
		),
		get("get_connection_column_config", "/v1/connections/{connection_id}/schemas/{schema_name}/tables/{table_name}/columns",
			"View column-level configuration for a specific table.",
			pathID("connection_id"),
			pathID("schema_name"),
			pathID("table_name"),
		),
		patch("modify_connection_column_config", "/v1/connections/{connection_id}/schemas/{schema_name}/tables/{table_name}/columns/{column_name}",
			"Configure individual columns (enable/disable, hashing for PII, etc.).",
			pathID("connection_id"),
			pathID("schema_name"),
			pathID("table_name"),
			pathID("column_name"),
			bodyParam("enabled", Boolean, "Whether the column is synced."),
			bodyParam("hashed", Boolean, "Hash the column values."),
			bodyParam("is_primary_key", Boolean, "Treat the column as part of the primary key."),
		),

		// Destinations
		list("list_destinations", "/v1/destinations",
			"List all data warehouse destinations configured in your account."),
		get("get_destination_details", "/v1/destinations/{destination_id}",
			"Get detailed configuration and status for a specific destination.",
			pathID("destination_id"),
		),
		withExample(post("create_destination", "/v1/destinations",
			"Create a new data warehouse destination (requires group_id).",
			requiredBody("group_id", String, "Group to associate with the destination."),
			requiredBody("service", String, "Destination type, for example snowflake or big_query."),
			bodyParam("region", String, "Data processing region, for example GCP_US_EAST4."),
			bodyParam("time_zone_offset", String, "Time zone offset from UTC, for example -5."),
			serviceConfig,
			bodyParam("daylight_saving_time_enabled", Boolean, "Shift sync times with daylight saving time."),
			trustCertificates,
			trustFingerprints,
			runSetupTests,
			networkingMethod,
		),
			Field{"group_id", "Group to associate with destination"},
			Field{"service", "Destination type (snowflake, bigquery, etc.)"},
			Field{"region", "Cloud region"},
			Field{"config", "Service-specific connection settings"},
		),
		patch("modify_destination", "/v1/destinations/{destination_id}",
			"Update destination configuration or settings.",
			pathID("destination_id"),
			bodyParam("region", String, "Data processing region."),
			bodyParam("time_zone_offset", String, "Time zone offset from UTC."),
			serviceConfig,
			bodyParam("daylight_saving_time_enabled", Boolean, "Shift sync times with daylight saving time."),
			trustCertificates,
			trustFingerprints,
			runSetupTests,
			networkingMethod,
		),
		del("delete_destination", "/v1/destinations/{destination_id}",
			"Permanently delete a destination and all associated connections.",
			pathID("destination_id"),
		),
		post("run_destination_setup_tests", "/v1/destinations/{destination_id}/test",
			"Validate destination connectivity and permissions.",
			pathID("destination_id"),
			trustCertificates,
			trustFingerprints,
		),

		// Groups
		list("list_groups", "/v1/groups",
			"List all groups that organize connections and destinations."),
		get("get_group_details", "/v1/groups/{group_id}",
			"Get detailed information about a specific group including associated resources.",
			pathID("group_id"),
		),
		withExample(post("create_group", "/v1/groups",
			"Create a new group to organize connections and control access.",
			requiredBody("name", String, "Display name for the group."),
		),
			Field{"name", "Display name for the group"},
		),
		patch("modify_group", "/v1/groups/{group_id}",
			"Update group settings and configuration.",
			pathID("group_id"),
			bodyParam("name", String, "New display name for the group."),
		),
		del("delete_group", "/v1/groups/{group_id}",
			"Permanently delete a group and all associated resources.",
			pathID("group_id"),
		),
		list("list_connections_in_group", "/v1/groups/{group_id}/connections",
			"List all connections within a specific group.",
			pathID("group_id"),
			queryParam("schema", String, "Only return the connection with this destination schema name."),
		),
		list("list_users_in_group", "/v1/groups/{group_id}/users",
			"List the users with access to a specific group.",
			pathID("group_id"),
		),
		post("add_user_to_group", "/v1/groups/{group_id}/users",
			"Grant an existing user access to a group.",
			pathID("group_id"),
			requiredBody("email", String, "Email address of the user to add."),
			requiredBody("role", String, "Group role, for example Destination Administrator."),
		),
		del("remove_user_from_group", "/v1/groups/{group_id}/users/{user_id}",
			"Revoke a user's access to a group.",
			pathID("group_id"),
			pathID("user_id"),
		),
		get("get_group_ssh_public_key", "/v1/groups/{group_id}/public-key",
			"Get the SSH public key Fivetran uses for tunnels into this group's sources.",
			pathID("group_id"),
		),
		get("get_group_service_account", "/v1/groups/{group_id}/service-account",
			"Get the cloud service account Fivetran uses for this group.",
			pathID("group_id"),
		),

		// Users
		list("list_users", "/v1/users",
			"List all users in your account with roles and status information."),
		get("get_user_details", "/v1/users/{user_id}",
			"Get detailed information about a specific user including permissions.",
			pathID("user_id"),
		),
		withExample(post("create_user", "/v1/users",
			"Invite a new user to your Fivetran account.",
			requiredBody("email", String, "User's email address."),
			requiredBody("given_name", String, "First name."),
			requiredBody("family_name", String, "Last name."),
			bodyParam("role", String, "Account role, for example Account Administrator or Account Reviewer."),
			bodyParam("phone", String, "Phone number."),
			bodyParam("picture", String, "Avatar URL."),
		),
			Field{"email", "User's email address"},
			Field{"given_name", "First name"},
			Field{"family_name", "Last name"},
			Field{"role", "Account role (Owner, Admin, Member, ReadOnly)"},
		),
		patch("modify_user", "/v1/users/{user_id}",
			"Update user information and account role.",
			pathID("user_id"),
			bodyParam("given_name", String, "First name."),
			bodyParam("family_name", String, "Last name."),
			bodyParam("role", String, "Account role."),
			bodyParam("phone", String, "Phone number."),
			bodyParam("picture", String, "Avatar URL."),
		),
		del("delete_user", "/v1/users/{user_id}",
			"Remove a user from your account permanently.",
			pathID("user_id"),
		),

		// Teams
		list("list_teams", "/v1/teams",
			"List all teams and their configurations."),
		get("get_team_details", "/v1/teams/{team_id}",
			"Get detailed information about a specific team.",
			pathID("team_id"),
		),
		withExample(post("create_team", "/v1/teams",
			"Create a new team for organizing user permissions.",
			requiredBody("name", String, "Team name."),
			requiredBody("role", String, "Account role granted to team members."),
			bodyParam("description", String, "Team purpose and description."),
		),
			Field{"name", "Team name"},
			Field{"description", "Team purpose and description"},
		),
		patch("modify_team", "/v1/teams/{team_id}",
			"Rename a team or change its role and description.",
			pathID("team_id"),
			bodyParam("name", String, "Team name."),
			bodyParam("role", String, "Account role granted to team members."),
			bodyParam("description", String, "Team purpose and description."),
		),
		del("delete_team", "/v1/teams/{team_id}",
			"Permanently delete a team. Members keep their individual access.",
			pathID("team_id"),
		),

		// Webhooks
		list("list_webhooks", "/v1/webhooks",
			"List all webhook configurations for event monitoring."),
		get("get_webhook_details", "/v1/webhooks/{webhook_id}",
			"Get configuration and status for a specific webhook.",
			pathID("webhook_id"),
		),
		withExample(post("create_account_webhook", "/v1/webhooks/account",
			"Create account-level webhook for monitoring all events.",
			requiredBody("url", String, "Webhook endpoint URL."),
			requiredBody("events", Array, "Events to deliver, for example sync_start and sync_end."),
			bodyParam("active", Boolean, "Deliver events immediately."),
			bodyParam("secret", String, "Secret used to sign deliveries."),
		),
			Field{"url", "Webhook endpoint URL"},
			Field{"events", "Array of events to monitor"},
			Field{"active", "Boolean to enable/disable"},
		),
		post("create_group_webhook", "/v1/webhooks/group/{group_id}",
			"Create group-specific webhook for targeted monitoring.",
			pathID("group_id"),
			requiredBody("url", String, "Webhook endpoint URL."),
			requiredBody("events", Array, "Events to deliver."),
			bodyParam("active", Boolean, "Deliver events immediately."),
			bodyParam("secret", String, "Secret used to sign deliveries."),
		),
		patch("modify_webhook", "/v1/webhooks/{webhook_id}",
			"Change a webhook's URL, events, secret or active flag.",
			pathID("webhook_id"),
			bodyParam("url", String, "Webhook endpoint URL."),
			bodyParam("events", Array, "Events to deliver."),
			bodyParam("active", Boolean, "Deliver events."),
			bodyParam("secret", String, "Secret used to sign deliveries."),
		),
		del("delete_webhook", "/v1/webhooks/{webhook_id}",
			"Permanently delete a webhook.",
			pathID("webhook_id"),
		),
		post("test_webhook", "/v1/webhooks/{webhook_id}/test",
			"Send test event to webhook endpoint to validate configuration.",
			pathID("webhook_id"),
			bodyParam("event", String, "Event name to simulate, for example sync_start."),
		),

		// Transformations
		list("list_transformations", "/v1/transformations",
			"List all dbt transformations and their execution status."),
		get("get_transformation_details", "/v1/transformations/{transformation_id}",
			"Get the schedule, status and last run of a transformation.",
			pathID("transformation_id"),
		),
		post("run_transformation", "/v1/transformations/{transformation_id}/run",
			"Manually execute a dbt transformation.",
			pathID("transformation_id"),
		),
		list("list_transformation_projects", "/v1/transformation-projects",
			"List all dbt transformation projects in your account."),
		get("get_transformation_project_details", "/v1/transformation-projects/{project_id}",
			"Get the configuration and setup status of a transformation project.",
			pathID("project_id"),
		),
		post("create_transformation_project", "/v1/transformation-projects",
			"Create a new dbt transformation project.",
			requiredBody("group_id", String, "Group whose destination the project runs against."),
			enumBody("type", "Project type.", "DBT_GIT"),
			bodyParam("run_tests", Boolean, "Run setup tests after creation."),
			bodyParam("project_config", Object, "Git repository, folder path, dbt version and threads."),
		),

		// System keys
		list("list_system_keys", "/v1/system-keys",
			"List all API keys for programmatic access."),
		get("get_system_key_details", "/v1/system-keys/{key_id}",
			"Get the name, scopes and expiry of a system key.",
			pathID("key_id"),
		),
		withExample(post("create_system_key", "/v1/system-keys",
			"Create new API key for automated processes.",
			requiredBody("name", String, "Descriptive name for the key."),
			bodyParam("expiration_date", String, "Optional expiration date (ISO 8601)."),
			bodyParam("scopes", Object, "Resource scopes granted to the key."),
		),
			Field{"name", "Descriptive name for the key"},
			Field{"expiration_date", "Optional expiration date"},
		),
		post("rotate_system_key", "/v1/system-keys/{key_id}/rotate",
			"Rotate API key for security compliance.",
			pathID("key_id"),
			bodyParam("expiration_date", String, "Expiration date of the rotated key (ISO 8601)."),
		),
		del("delete_system_key", "/v1/system-keys/{key_id}",
			"Permanently revoke a system key.",
			pathID("key_id"),
		),

		// Metadata
		list("list_connector_metadata", "/v1/metadata/connector-types",
			"List available connector types with their names and documentation links."),
	}
}
