// Package parse decodes raw Velodyne HDL UDP packets into calibrated,
// range-filtered 3D points.
//
// PACKET STRUCTURE (1206 bytes total):
// ├── Data Blocks (1200 bytes) - 12 blocks × 100 bytes each, starting at offset 0
// │   └── Each block: 2-byte bank header (0xEEFF upper / 0xDDFF lower) +
// │       2-byte base rotation + 32 returns × 3 bytes (distance + intensity)
// ├── Revolution counter (2 bytes) - opaque, not interpreted
// └── Status (4 bytes) - temperature or firmware encoding, opaque
//
// PARSER ARCHITECTURE:
//  1. Packet validation (size and bank header checks, whole packet rejected
//     on failure before any point is produced)
//  2. Return record extraction (explicit little-endian composition of the
//     misaligned 16-bit distance field)
//  3. Geometric correction (azimuth interpolation between block rotations,
//     per-channel calibration corrections)
//  4. Coordinate transformation (polar → Cartesian) and range filtering
//  5. Append to the caller-owned point cloud
//
// All trigonometry for the fixed per-channel angles is precomputed at Setup,
// and Unpack shares no mutable state, so packets may be decoded concurrently
// as long as each call owns its output cloud.
package parse
