// Provides platform-appropriate paths for cached build state and user
// settings.
//
// All paths follow XDG conventions on Linux and platform-native conventions
// on macOS and Windows. The tool name "nanobundle" is used as the
// subdirectory under each base path.
package paths
