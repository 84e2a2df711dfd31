package typesys

// builtinDefinitions returns the built-in ROS2 message set backing the
// default registry. It covers a representative subset of every package
// named in the spec's built-in package list; the full per-distribution
// catalog is data, not logic, and Register extends this set trivially at
// runtime for any message not included here.
func builtinDefinitions() map[string]*MessageDef {
	defs := []*MessageDef{
		// builtin_interfaces
		Def("builtin_interfaces/msg/Time",
			F("sec", Prim(INT32)),
			F("nanosec", Prim(UINT32)),
		),
		Def("builtin_interfaces/msg/Duration",
			F("sec", Prim(INT32)),
			F("nanosec", Prim(UINT32)),
		),

		// std_msgs
		Def("std_msgs/msg/Header",
			F("stamp", Msg("builtin_interfaces/msg/Time")),
			F("frame_id", Prim(STRING)),
		),
		Def("std_msgs/msg/String", F("data", Prim(STRING))),
		Def("std_msgs/msg/Bool", F("data", Prim(BOOL))),
		Def("std_msgs/msg/Byte", F("data", Prim(BYTE))),
		Def("std_msgs/msg/Char", F("data", Prim(CHAR))),
		Def("std_msgs/msg/Float32", F("data", Prim(FLOAT32))),
		Def("std_msgs/msg/Float64", F("data", Prim(FLOAT64))),
		Def("std_msgs/msg/Int8", F("data", Prim(INT8))),
		Def("std_msgs/msg/Int16", F("data", Prim(INT16))),
		Def("std_msgs/msg/Int32", F("data", Prim(INT32))),
		Def("std_msgs/msg/Int64", F("data", Prim(INT64))),
		Def("std_msgs/msg/UInt8", F("data", Prim(UINT8))),
		Def("std_msgs/msg/UInt16", F("data", Prim(UINT16))),
		Def("std_msgs/msg/UInt32", F("data", Prim(UINT32))),
		Def("std_msgs/msg/UInt64", F("data", Prim(UINT64))),
		Def("std_msgs/msg/ColorRGBA",
			F("r", Prim(FLOAT32)), F("g", Prim(FLOAT32)),
			F("b", Prim(FLOAT32)), F("a", Prim(FLOAT32)),
		),
		Def("std_msgs/msg/Empty"),

		// unique_identifier_msgs
		Def("unique_identifier_msgs/msg/UUID",
			F("uuid", FixedArray(Prim(UINT8), 16)),
		),

		// geometry_msgs
		Def("geometry_msgs/msg/Vector3",
			F("x", Prim(FLOAT64)), F("y", Prim(FLOAT64)), F("z", Prim(FLOAT64)),
		),
		Def("geometry_msgs/msg/Point",
			F("x", Prim(FLOAT64)), F("y", Prim(FLOAT64)), F("z", Prim(FLOAT64)),
		),
		Def("geometry_msgs/msg/Point32",
			F("x", Prim(FLOAT32)), F("y", Prim(FLOAT32)), F("z", Prim(FLOAT32)),
		),
		Def("geometry_msgs/msg/Quaternion",
			FD("x", Prim(FLOAT64), float64(0)),
			FD("y", Prim(FLOAT64), float64(0)),
			FD("z", Prim(FLOAT64), float64(0)),
			FD("w", Prim(FLOAT64), float64(1)),
		),
		Def("geometry_msgs/msg/Pose",
			F("position", Msg("geometry_msgs/msg/Point")),
			F("orientation", Msg("geometry_msgs/msg/Quaternion")),
		),
		Def("geometry_msgs/msg/PoseStamped",
			F("header", Msg("std_msgs/msg/Header")),
			F("pose", Msg("geometry_msgs/msg/Pose")),
		),
		Def("geometry_msgs/msg/PoseWithCovariance",
			F("pose", Msg("geometry_msgs/msg/Pose")),
			F("covariance", FixedArray(Prim(FLOAT64), 36)),
		),
		Def("geometry_msgs/msg/Twist",
			F("linear", Msg("geometry_msgs/msg/Vector3")),
			F("angular", Msg("geometry_msgs/msg/Vector3")),
		),
		Def("geometry_msgs/msg/TwistWithCovariance",
			F("twist", Msg("geometry_msgs/msg/Twist")),
			F("covariance", FixedArray(Prim(FLOAT64), 36)),
		),
		Def("geometry_msgs/msg/Transform",
			F("translation", Msg("geometry_msgs/msg/Vector3")),
			F("rotation", Msg("geometry_msgs/msg/Quaternion")),
		),
		Def("geometry_msgs/msg/TransformStamped",
			F("header", Msg("std_msgs/msg/Header")),
			F("child_frame_id", Prim(STRING)),
			F("transform", Msg("geometry_msgs/msg/Transform")),
		),
		Def("geometry_msgs/msg/Wrench",
			F("force", Msg("geometry_msgs/msg/Vector3")),
			F("torque", Msg("geometry_msgs/msg/Vector3")),
		),

		// sensor_msgs
		Def("sensor_msgs/msg/RegionOfInterest",
			F("x_offset", Prim(UINT32)), F("y_offset", Prim(UINT32)),
			F("height", Prim(UINT32)), F("width", Prim(UINT32)),
			F("do_rectify", Prim(BOOL)),
		),
		Def("sensor_msgs/msg/Image",
			F("header", Msg("std_msgs/msg/Header")),
			F("height", Prim(UINT32)), F("width", Prim(UINT32)),
			F("encoding", Prim(STRING)),
			F("is_bigendian", Prim(UINT8)),
			F("step", Prim(UINT32)),
			F("data", Sequence(Prim(UINT8))),
		),
		Def("sensor_msgs/msg/CompressedImage",
			F("header", Msg("std_msgs/msg/Header")),
			F("format", Prim(STRING)),
			F("data", Sequence(Prim(UINT8))),
		),
		Def("sensor_msgs/msg/CameraInfo",
			F("header", Msg("std_msgs/msg/Header")),
			F("height", Prim(UINT32)), F("width", Prim(UINT32)),
			F("distortion_model", Prim(STRING)),
			F("d", Sequence(Prim(FLOAT64))),
			F("k", FixedArray(Prim(FLOAT64), 9)),
			F("r", FixedArray(Prim(FLOAT64), 9)),
			F("p", FixedArray(Prim(FLOAT64), 12)),
			F("binning_x", Prim(UINT32)), F("binning_y", Prim(UINT32)),
			F("roi", Msg("sensor_msgs/msg/RegionOfInterest")),
		),
		Def("sensor_msgs/msg/PointField",
			F("name", Prim(STRING)),
			F("offset", Prim(UINT32)),
			F("datatype", Prim(UINT8)),
			F("count", Prim(UINT32)),
		),
		Def("sensor_msgs/msg/PointCloud2",
			F("header", Msg("std_msgs/msg/Header")),
			F("height", Prim(UINT32)), F("width", Prim(UINT32)),
			F("fields", Sequence(Msg("sensor_msgs/msg/PointField"))),
			F("is_bigendian", Prim(BOOL)),
			F("point_step", Prim(UINT32)),
			F("row_step", Prim(UINT32)),
			F("data", Sequence(Prim(UINT8))),
			F("is_dense", Prim(BOOL)),
		),
		Def("sensor_msgs/msg/Imu",
			F("header", Msg("std_msgs/msg/Header")),
			F("orientation", Msg("geometry_msgs/msg/Quaternion")),
			F("orientation_covariance", FixedArray(Prim(FLOAT64), 9)),
			F("angular_velocity", Msg("geometry_msgs/msg/Vector3")),
			F("angular_velocity_covariance", FixedArray(Prim(FLOAT64), 9)),
			F("linear_acceleration", Msg("geometry_msgs/msg/Vector3")),
			F("linear_acceleration_covariance", FixedArray(Prim(FLOAT64), 9)),
		),
		Def("sensor_msgs/msg/JointState",
			F("header", Msg("std_msgs/msg/Header")),
			F("name", Sequence(Prim(STRING))),
			F("position", Sequence(Prim(FLOAT64))),
			F("velocity", Sequence(Prim(FLOAT64))),
			F("effort", Sequence(Prim(FLOAT64))),
		),
		Def("sensor_msgs/msg/LaserScan",
			F("header", Msg("std_msgs/msg/Header")),
			F("angle_min", Prim(FLOAT32)), F("angle_max", Prim(FLOAT32)),
			F("angle_increment", Prim(FLOAT32)),
			F("time_increment", Prim(FLOAT32)),
			F("scan_time", Prim(FLOAT32)),
			F("range_min", Prim(FLOAT32)), F("range_max", Prim(FLOAT32)),
			F("ranges", Sequence(Prim(FLOAT32))),
			F("intensities", Sequence(Prim(FLOAT32))),
		),
		Def("sensor_msgs/msg/NavSatStatus",
			F("status", Prim(INT8)), F("service", Prim(UINT16)),
		),
		Def("sensor_msgs/msg/NavSatFix",
			F("header", Msg("std_msgs/msg/Header")),
			F("status", Msg("sensor_msgs/msg/NavSatStatus")),
			F("latitude", Prim(FLOAT64)), F("longitude", Prim(FLOAT64)), F("altitude", Prim(FLOAT64)),
			F("position_covariance", FixedArray(Prim(FLOAT64), 9)),
			F("position_covariance_type", Prim(UINT8)),
		),

		// stereo_msgs
		Def("stereo_msgs/msg/DisparityImage",
			F("header", Msg("std_msgs/msg/Header")),
			F("image", Msg("sensor_msgs/msg/Image")),
			F("f", Prim(FLOAT32)), F("t", Prim(FLOAT32)),
			F("valid_window", Msg("sensor_msgs/msg/RegionOfInterest")),
			F("min_disparity", Prim(FLOAT32)), F("max_disparity", Prim(FLOAT32)),
			F("delta_d", Prim(FLOAT32)),
		),

		// nav_msgs
		Def("nav_msgs/msg/Odometry",
			F("header", Msg("std_msgs/msg/Header")),
			F("child_frame_id", Prim(STRING)),
			F("pose", Msg("geometry_msgs/msg/PoseWithCovariance")),
			F("twist", Msg("geometry_msgs/msg/TwistWithCovariance")),
		),
		Def("nav_msgs/msg/Path",
			F("header", Msg("std_msgs/msg/Header")),
			F("poses", Sequence(Msg("geometry_msgs/msg/PoseStamped"))),
		),
		Def("nav_msgs/msg/MapMetaData",
			F("map_load_time", Msg("builtin_interfaces/msg/Time")),
			F("resolution", Prim(FLOAT32)),
			F("width", Prim(UINT32)), F("height", Prim(UINT32)),
			F("origin", Msg("geometry_msgs/msg/Pose")),
		),

		// diagnostic_msgs
		Def("diagnostic_msgs/msg/KeyValue",
			F("key", Prim(STRING)), F("value", Prim(STRING)),
		),
		Def("diagnostic_msgs/msg/DiagnosticStatus",
			F("level", Prim(BYTE)),
			F("name", Prim(STRING)),
			F("message", Prim(STRING)),
			F("hardware_id", Prim(STRING)),
			F("values", Sequence(Msg("diagnostic_msgs/msg/KeyValue"))),
		),
		Def("diagnostic_msgs/msg/DiagnosticArray",
			F("header", Msg("std_msgs/msg/Header")),
			F("status", Sequence(Msg("diagnostic_msgs/msg/DiagnosticStatus"))),
		),

		// tf2_msgs
		Def("tf2_msgs/msg/TFMessage",
			F("transforms", Sequence(Msg("geometry_msgs/msg/TransformStamped"))),
		),
		Def("tf2_msgs/msg/TF2Error",
			F("error", Prim(UINT8)), F("error_string", Prim(STRING)),
		),

		// trajectory_msgs
		Def("trajectory_msgs/msg/JointTrajectoryPoint",
			F("positions", Sequence(Prim(FLOAT64))),
			F("velocities", Sequence(Prim(FLOAT64))),
			F("accelerations", Sequence(Prim(FLOAT64))),
			F("effort", Sequence(Prim(FLOAT64))),
			F("time_from_start", Msg("builtin_interfaces/msg/Duration")),
		),
		Def("trajectory_msgs/msg/JointTrajectory",
			F("header", Msg("std_msgs/msg/Header")),
			F("joint_names", Sequence(Prim(STRING))),
			F("points", Sequence(Msg("trajectory_msgs/msg/JointTrajectoryPoint"))),
		),

		// shape_msgs
		Def("shape_msgs/msg/Plane", F("coef", FixedArray(Prim(FLOAT64), 4))),
		Def("shape_msgs/msg/MeshTriangle", F("vertex_indices", FixedArray(Prim(UINT32), 3))),
		Def("shape_msgs/msg/Mesh",
			F("triangles", Sequence(Msg("shape_msgs/msg/MeshTriangle"))),
			F("vertices", Sequence(Msg("geometry_msgs/msg/Point"))),
		),
		Def("shape_msgs/msg/SolidPrimitive",
			F("type", Prim(UINT8)),
			F("dimensions", Sequence(Prim(FLOAT64))),
		),

		// visualization_msgs
		Def("visualization_msgs/msg/Marker",
			F("header", Msg("std_msgs/msg/Header")),
			F("ns", Prim(STRING)),
			F("id", Prim(INT32)),
			F("type", Prim(INT32)),
			F("action", Prim(INT32)),
			F("pose", Msg("geometry_msgs/msg/Pose")),
			F("scale", Msg("geometry_msgs/msg/Vector3")),
			F("color", Msg("std_msgs/msg/ColorRGBA")),
			F("lifetime", Msg("builtin_interfaces/msg/Duration")),
			F("frame_locked", Prim(BOOL)),
			F("points", Sequence(Msg("geometry_msgs/msg/Point"))),
			F("colors", Sequence(Msg("std_msgs/msg/ColorRGBA"))),
			F("text", Prim(STRING)),
			F("mesh_resource", Prim(STRING)),
			F("mesh_use_embedded_materials", Prim(BOOL)),
		),
		Def("visualization_msgs/msg/MarkerArray",
			F("markers", Sequence(Msg("visualization_msgs/msg/Marker"))),
		),

		// rcl_interfaces
		Def("rcl_interfaces/msg/Log",
			F("stamp", Msg("builtin_interfaces/msg/Time")),
			F("level", Prim(UINT8)),
			F("name", Prim(STRING)),
			F("msg", Prim(STRING)),
			F("file", Prim(STRING)),
			F("function", Prim(STRING)),
			F("line", Prim(UINT32)),
		),
		Def("rcl_interfaces/msg/ParameterType", F("structure_needs_at_least_one_member", Prim(UINT8))),
		Def("rcl_interfaces/msg/ParameterValue",
			F("type", Prim(UINT8)),
			F("bool_value", Prim(BOOL)),
			F("integer_value", Prim(INT64)),
			F("double_value", Prim(FLOAT64)),
			F("string_value", Prim(STRING)),
			F("byte_array_value", Sequence(Prim(UINT8))),
			F("bool_array_value", Sequence(Prim(BOOL))),
			F("integer_array_value", Sequence(Prim(INT64))),
			F("double_array_value", Sequence(Prim(FLOAT64))),
			F("string_array_value", Sequence(Prim(STRING))),
		),
		Def("rcl_interfaces/msg/Parameter",
			F("name", Prim(STRING)),
			F("value", Msg("rcl_interfaces/msg/ParameterValue")),
		),
		Def("rcl_interfaces/msg/ParameterDescriptor",
			F("name", Prim(STRING)),
			F("type", Prim(UINT8)),
			F("description", Prim(STRING)),
			F("read_only", Prim(BOOL)),
		),
		Def("rcl_interfaces/msg/SetParametersResult",
			F("successful", Prim(BOOL)),
			F("reason", Prim(STRING)),
		),

		// rmw_dds_common
		Def("rmw_dds_common/msg/Gid",
			F("data", FixedArray(Prim(UINT8), 24)),
		),
		Def("rmw_dds_common/msg/NodeEntitiesInfo",
			F("node_namespace", Prim(STRING)),
			F("node_name", Prim(STRING)),
			F("reader_gid_seq", Sequence(Msg("rmw_dds_common/msg/Gid"))),
			F("writer_gid_seq", Sequence(Msg("rmw_dds_common/msg/Gid"))),
		),
		Def("rmw_dds_common/msg/ParticipantEntitiesInfo",
			F("gid", Msg("rmw_dds_common/msg/Gid")),
			F("node_entities_info_seq", Sequence(Msg("rmw_dds_common/msg/NodeEntitiesInfo"))),
		),

		// rosgraph_msgs
		Def("rosgraph_msgs/msg/Clock",
			F("clock", Msg("builtin_interfaces/msg/Time")),
		),

		// lifecycle_msgs
		Def("lifecycle_msgs/msg/State",
			F("id", Prim(UINT8)), F("label", Prim(STRING)),
		),
		Def("lifecycle_msgs/msg/Transition",
			F("id", Prim(UINT8)), F("label", Prim(STRING)),
		),
		Def("lifecycle_msgs/msg/TransitionEvent",
			F("timestamp", Prim(UINT64)),
			F("transition", Msg("lifecycle_msgs/msg/Transition")),
			F("start_state", Msg("lifecycle_msgs/msg/State")),
			F("goal_state", Msg("lifecycle_msgs/msg/State")),
		),

		// statistics_msgs
		Def("statistics_msgs/msg/StatisticDataPoint",
			F("data_type", Prim(UINT8)),
			F("data", Prim(FLOAT64)),
		),
		Def("statistics_msgs/msg/StatisticDataType", F("structure_needs_at_least_one_member", Prim(UINT8))),
		Def("statistics_msgs/msg/MetricsMessage",
			F("measurement_source_name", Prim(STRING)),
			F("metrics_source", Prim(STRING)),
			F("unit", Prim(STRING)),
			F("window_start", Msg("builtin_interfaces/msg/Time")),
			F("window_stop", Msg("builtin_interfaces/msg/Time")),
			F("statistics", Sequence(Msg("statistics_msgs/msg/StatisticDataPoint"))),
		),

		// libstatistics_collector ships no IDL of its own in the upstream
		// distribution; it publishes statistics_msgs/MetricsMessage. A
		// placeholder is registered here only so the package name in the
		// spec's built-in list resolves to something.
		Def("libstatistics_collector/msg/Placeholder",
			F("reserved", Prim(UINT8)),
		),
	}

	out := make(map[string]*MessageDef, len(defs))
	for _, d := range defs {
		out[d.Name] = d
	}
	return out
}
